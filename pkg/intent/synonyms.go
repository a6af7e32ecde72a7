package intent

import (
	"fmt"
	"regexp"
	"strings"
)

// phraseEntry is a fixed multi-word phrase mapped to an intent. Phrases
// are matched on whole-word boundaries, never as substrings.
type phraseEntry struct {
	phrase string
	expr   *regexp.Regexp
	intent string
}

// Synonyms is the immutable vocabulary table: single tokens and fixed
// phrases mapped to a canonical intent. A synonym hit is a weaker signal
// than a pattern hit (weight 0.5 vs 1.0).
type Synonyms struct {
	tokens  map[string]string
	phrases []phraseEntry
}

// NewSynonyms builds a synonym table. Entries with a space are treated as
// fixed phrases; everything else is a whole-token lookup. All mapped
// intents must exist in the given table.
func NewSynonyms(table *Table, entries map[string]string) (*Synonyms, error) {
	s := &Synonyms{tokens: make(map[string]string)}
	for raw, mapped := range entries {
		if table.Position(mapped) < 0 {
			return nil, fmt.Errorf("synonym %q maps to undeclared intent %q", raw, mapped)
		}
		key := strings.ToLower(strings.TrimSpace(raw))
		if strings.Contains(key, " ") {
			s.phrases = append(s.phrases, phraseEntry{
				phrase: key,
				expr:   regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b`),
				intent: mapped,
			})
			continue
		}
		s.tokens[key] = mapped
	}
	return s, nil
}

// LookupToken returns the intent mapped to a single token, if any.
func (s *Synonyms) LookupToken(token string) (string, bool) {
	intent, ok := s.tokens[strings.ToLower(token)]
	return intent, ok
}

// phraseHits counts whole-word occurrences of each fixed phrase and
// blanks the matched spans, so a phrase's words cannot also score as
// single tokens. It returns the hit counts and the masked input.
func (s *Synonyms) phraseHits(normalized string) (map[string]int, string) {
	hits := make(map[string]int)
	masked := []byte(normalized)
	for _, p := range s.phrases {
		spans := p.expr.FindAllIndex(masked, -1)
		if len(spans) == 0 {
			continue
		}
		hits[p.intent] += len(spans)
		for _, span := range spans {
			for i := span[0]; i < span[1]; i++ {
				masked[i] = ' '
			}
		}
	}
	return hits, string(masked)
}

// DefaultSynonyms returns the shipped vocabulary table (version 1).
func DefaultSynonyms(table *Table) *Synonyms {
	s, err := NewSynonyms(table, map[string]string{
		// Orders
		"order":    IntentOrderStatus,
		"shipped":  IntentOrderStatus,
		"track":    IntentOrderTracking,
		"tracking": IntentOrderTracking,
		"shipment": IntentOrderTracking,
		"delivery": IntentOrderTracking,
		"cancel":   IntentOrderCancel,

		// Quotes
		"quote":     IntentQuoteRequest,
		"quotation": IntentQuoteRequest,
		"estimate":  IntentQuoteRequest,

		// Products
		"catalog":      IntentProductSearch,
		"catalogue":    IntentProductSearch,
		"stock":        IntentProductAvailability,
		"availability": IntentProductAvailability,
		"available":    IntentProductAvailability,
		"price":        IntentProductPrice,
		"pricing":      IntentProductPrice,
		"cost":         IntentProductPrice,
		"engraving":    IntentProductCustomization,
		"customized":   IntentProductCustomization,
		"logo":         IntentProductCustomization,

		// Invoices
		"bill":    IntentInvoiceStatus,
		"invoice": IntentInvoiceStatus,
		"billing": IntentInvoiceStatus,
		"pay":     IntentInvoicePayment,
		"payment": IntentInvoicePayment,

		// Supplier / purchase orders
		"supplier":       IntentSupplierCatalog,
		"vendor":         IntentSupplierCatalog,
		"consignment":    IntentSupplierShipment,
		"po":             IntentPurchaseOrderStatus,
		"purchase order": IntentPurchaseOrderStatus,

		// Customers / account
		"account":  IntentCustomerAccount,
		"profile":  IntentCustomerAccount,
		"address":  IntentCustomerAddress,
		"password": IntentAccountSecurity,
		"login":    IntentAccountSecurity,

		// Reports
		"report":       IntentReportSales,
		"sales report": IntentReportSales,
		"inventory":    IntentReportInventory,
		"stock report": IntentReportInventory,
		"stock levels": IntentReportInventory,

		// Help / escalation
		"help":            IntentHelp,
		"faq":             IntentHelp,
		"human":           IntentContactHuman,
		"agent":           IntentContactHuman,
		"support":         IntentContactHuman,
		"talk to someone": IntentContactHuman,
	})
	if err != nil {
		panic(err) // shipped vocabulary is validated by tests
	}
	return s
}
