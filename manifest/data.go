package manifest

// FreeSurahID is unlocked for every student regardless of stored access rows.
const FreeSurahID = 1

// Surahs is the curriculum. Only Al-Faatixa has published lessons so far;
// the short surahs of Juz Amma are listed for the coming-soon grid.
var Surahs = []CourseManifest{
	{
		SurahID:    1,
		NameSomali: "Surah Al-Faatixa",
		NameArabic: "سورة الفاتحة",
		Lessons: []LessonSegment{
			{
				ID:              0,
				LessonNumber:    1,
				Title:           "Qaybta 1aad",
				Subtitle:        "Hordhaca & Akhriska",
				MediaRef:        "Zf0Ww_ucs4o",
				Start:           0,
				End:             300,
				HardStop:        300,
				LockedByDefault: false,
				DurationLabel:   "5:00",
			},
			{
				ID:              1,
				LessonNumber:    2,
				Title:           "Qaybta 2aad",
				Subtitle:        "Dhamaystirka & Tafsiirka",
				MediaRef:        "Zf0Ww_ucs4o",
				Start:           300,
				End:             660,
				HardStop:        637, // cut the outro at 10:37 absolute
				LockedByDefault: true,
				DurationLabel:   "5:37",
			},
		},
		Ayahs: []AyahSegment{
			{Number: 1, Text: "بِسْمِ ٱللَّهِ ٱلرَّحْمَـٰنِ ٱلرَّحِيمِ", Start: 0, End: 165},
			{Number: 2, Text: "ٱلْحَمْدُ لِلَّهِ رَبِّ ٱلْعَـٰلَمِينَ", Start: 166, End: 305},
			{Number: 3, Text: "ٱلرَّحْمَـٰنِ ٱلرَّحِيمِ", Start: 306.5, End: 320.2},
			{Number: 4, Text: "مَـٰلِكِ يَوْمِ ٱلدِّينِ", Start: 320.3, End: 361.5},
			{Number: 5, Text: "إِيَّاكَ نَعْبُدُ وَإِيَّاكَ نَسْتَعِينُ", Start: 361.6, End: 454.4},
			{Number: 6, Text: "ٱهْدِنَا ٱلصِّرَٰطَ ٱلْمُسْتَقِيمَ", Start: 454.5, End: 546.5},
			{Number: 7, Text: "صِرَٰطَ ٱلَّذِينَ أَنعَمتَ عَلَيهِمْ غَيرِ ٱلمَغضُوبِ عَلَيهِمْ وَلاَ ٱلضَّالِّينَ", Start: 546.6, End: 637},
		},
	},
	{SurahID: 102, NameSomali: "Surah At-Takaasur", NameArabic: "سورة التكاثر"},
	{SurahID: 103, NameSomali: "Surah Al-Asr", NameArabic: "سورة العصر"},
	{SurahID: 104, NameSomali: "Surah Al-Humazah", NameArabic: "سورة الهمزة"},
	{SurahID: 105, NameSomali: "Surah Al-Fil", NameArabic: "سورة الفيل"},
	{SurahID: 106, NameSomali: "Surah Quraysh", NameArabic: "سورة قريش"},
	{SurahID: 107, NameSomali: "Surah Al-Maun", NameArabic: "سورة الماعون"},
	{SurahID: 108, NameSomali: "Surah Al-Kawthar", NameArabic: "سورة الكوثر"},
	{SurahID: 109, NameSomali: "Surah Al-Kaafiruun", NameArabic: "سورة الكافرون"},
	{SurahID: 110, NameSomali: "Surah An-Nasr", NameArabic: "سورة النصر"},
	{SurahID: 111, NameSomali: "Surah Al-Masad", NameArabic: "سورة المسد"},
	{SurahID: 112, NameSomali: "Surah Al-Ikhlaas", NameArabic: "سورة الإخلاص"},
	{SurahID: 113, NameSomali: "Surah Al-Falaq", NameArabic: "سورة الفلق"},
	{SurahID: 114, NameSomali: "Surah An-Naas", NameArabic: "سورة الناس"},
}
