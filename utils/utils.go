package utils

import (
	"fmt"
	"math/rand"
	"net/url"
	"time"
)

// GenerateAccessCode generates a student access code in the ANW-#### format
func GenerateAccessCode() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("ANW-%d", 1000+rng.Intn(9000))
}

// WhatsAppShareURL builds the share-progress deep link a student posts after
// finishing a lesson. Fire-and-forget; no delivery confirmation.
func WhatsAppShareURL(lessonNumber int, title string) string {
	text := fmt.Sprintf("Waan dhameeyay %s (Casharka %d) ee Surada Fatiha! \nKu baro Tafsiirka Qur'aanka halkan: https://anwaar-tafsiir.com", title, lessonNumber)
	return "https://wa.me/?text=" + url.QueryEscape(text)
}

// InstructorWhatsAppURL builds the "notify instructor" deep link shown on
// course completion.
func InstructorWhatsAppURL(instructorPhone, surahName string) string {
	text := fmt.Sprintf("Assalamu alaykum Macalin, waxaan si guul leh u dhameeyay Tafsiirka %s.", surahName)
	return "https://wa.me/" + instructorPhone + "?text=" + url.QueryEscape(text)
}
