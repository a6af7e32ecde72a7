package main

import (
	"fmt"

	"commerce-assistant-be/pkg/intent"
)

// Offline evaluation of the shipped intent tables. Runs a fixed battery
// of storefront utterances through the classifier and prints the ranking
// so table or synonym edits can be sanity-checked before a deploy.

func main() {
	fmt.Println("=== INTENT TABLE EVALUATION ===")

	classifier := intent.NewDefault()

	testQueries := []string{
		"Where's my order #12345",
		"where is my order",
		"do you have M8 hex bolts in stock",
		"I want to request a quote for 500 units",
		"status of my invoice #4455",
		"bill",
		"purchase order 778899",
		"talk to someone",
		"can I return a customized product",
		"how do I pay an open invoice",
		"track 1Z999AA10123456784",
		"asdf qwerty",
	}

	for _, query := range testQueries {
		result := classifier.Classify(query)

		fmt.Printf("\n--- %q ---\n", query)
		fmt.Printf("intent=%s confidence=%.3f\n", result.Intent, result.Confidence)
		for name, value := range result.Params {
			fmt.Printf("  param %s=%s\n", name, value)
		}
		for i, cand := range result.Candidates {
			if i >= 3 {
				break
			}
			fmt.Printf("  #%d %s score=%.2f\n", i+1, cand.Intent, cand.Score)
		}
	}
}
