package service

import (
	"fmt"
	"strings"
)

// generationTemperature keeps answers varied without drifting off-topic
const generationTemperature float32 = 0.7

const faqSystemPrompt = `You are an expert FAQ writer who builds comprehensive, relevant FAQ sections for businesses.
Write between 8 and 12 frequently asked questions, each with a detailed and helpful answer, based on the business information provided.

Cover the concerns customers commonly raise: service details, pricing, process, timeline and support.
Keep answers professional, informative and specific to the business type.

Respond with JSON in exactly this format:
{
  "questions": [
    {
      "question": "Question text here",
      "answer": "Detailed answer here"
    }
  ]
}`

// faqTopics is the checklist every generated FAQ should cover
var faqTopics = []string{
	"What services or products they offer",
	"How their process works",
	"Pricing and payment options",
	"Timeline and expectations",
	"What makes them different",
	"Support and guarantees",
	"Location and availability",
	"How to get started",
}

// buildFaqPrompt returns the fixed system/user prompt pair for a request
func buildFaqPrompt(req GenerationRequest) TextPrompt {
	var b strings.Builder

	b.WriteString("Generate FAQs for this business:\n\n")
	fmt.Fprintf(&b, "Business Type: %s\n", req.BusinessType)
	fmt.Fprintf(&b, "Description: %s\n", req.BusinessDescription)
	if req.WebsiteURL != "" {
		fmt.Fprintf(&b, "Website: %s\n", req.WebsiteURL)
	}
	b.WriteString("\nCreate questions that potential customers would commonly ask about this business, including:\n")
	for _, topic := range faqTopics {
		fmt.Fprintf(&b, "- %s\n", topic)
	}

	return TextPrompt{
		System:      faqSystemPrompt,
		User:        b.String(),
		Temperature: generationTemperature,
	}
}
