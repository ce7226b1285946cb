package surahController

import (
	"anwaar/config"
	"anwaar/manifest"
	"anwaar/middleware"
	"anwaar/validators/surahValidator"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
)

// SurahDetails is the Somali-language study card produced by the AI gateway.
type SurahDetails struct {
	NameMeaning       string `json:"nameMeaning"`
	RevelationType    string `json:"revelationType"`
	RevelationContext string `json:"revelationContext"`
	MainTheme         string `json:"mainTheme"`
}

// detailsCache: the gateway output for a surah never changes, so cache per
// name for the process lifetime.
var (
	detailsMu    sync.Mutex
	detailsCache = map[string]SurahDetails{}
)

// ListSurahs returns the full curriculum manifest.
func ListSurahs(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Surahs fetched successfully!", manifest.Surahs)
}

// GetSurah returns one course manifest by id.
func GetSurah(c *fiber.Ctx) error {
	surahID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid surah id!", nil)
	}

	course, ok := manifest.Lookup(surahID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Surah not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Surah fetched successfully!", course)
}

const detailsSystemPrompt = `You are an expert Quranic scholar fluent in Somali.

Task: I will give you a Surah Name. Provide detailed information about this Surah.

Output: Return a JSON object with fields nameMeaning, revelationType, revelationContext, mainTheme — IN SOMALI LANGUAGE ONLY.

CRITICAL RULES:
1. ALL text MUST be in Somali language
2. Be academic, respectful, and informative
3. Keep each field concise but meaningful (2-4 sentences max)
4. Return ONLY valid JSON, no markdown formatting`

// GetSurahDetails proxies the AI gateway for the surah info card, with a
// per-name cache so repeated card opens cost nothing.
func GetSurahDetails(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSurahDetails").(*surahValidator.DetailsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if config.AppConfig.AIGatewayKey == "" {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "AI service not configured", nil)
	}

	detailsMu.Lock()
	if cached, hit := detailsCache[reqData.SurahName]; hit {
		detailsMu.Unlock()
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Surah details fetched successfully!", cached)
	}
	detailsMu.Unlock()

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.AIGatewayKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"model": "google/gemini-3-flash-preview",
			"messages": []map[string]string{
				{"role": "system", "content": detailsSystemPrompt},
				{"role": "user", "content": "Provide detailed information about Surah: " + reqData.SurahName},
			},
			"temperature": 0.3,
			"max_tokens":  1000,
		}).
		Post(config.AppConfig.AIGatewayURL)
	if err != nil {
		log.Printf("Error calling AI gateway: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "AI service error", nil)
	}

	switch resp.StatusCode() {
	case fiber.StatusOK:
	case fiber.StatusTooManyRequests:
		return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Rate limit exceeded. Please try again later.", nil)
	case fiber.StatusPaymentRequired:
		return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "AI credits exhausted.", nil)
	default:
		log.Printf("AI gateway error: %d %s", resp.StatusCode(), resp.String())
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "AI service error", nil)
	}

	var gatewayResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &gatewayResp); err != nil || len(gatewayResp.Choices) == 0 {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "No response from AI", nil)
	}

	// Strip markdown fences the model sometimes adds despite instructions
	content := gatewayResp.Choices[0].Message.Content
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	content = strings.TrimSpace(content)

	var details SurahDetails
	if err := json.Unmarshal([]byte(content), &details); err != nil {
		log.Printf("Error parsing AI response: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Invalid AI response", nil)
	}

	detailsMu.Lock()
	detailsCache[reqData.SurahName] = details
	detailsMu.Unlock()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Surah details fetched successfully!", details)
}
