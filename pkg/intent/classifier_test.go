package intent

import (
	"reflect"
	"testing"
)

func TestClassifyScenarios(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		name       string
		input      string
		wantIntent string
		wantParams map[string]string
	}{
		{
			name:       "order status with number",
			input:      "Where's my order #12345",
			wantIntent: IntentOrderStatus,
			wantParams: map[string]string{ParamOrderNumber: "12345"},
		},
		{
			name:       "product availability",
			input:      "do you have bolts in stock",
			wantIntent: IntentProductAvailability,
		},
		{
			name:       "invoice via synonym only",
			input:      "bill",
			wantIntent: IntentInvoiceStatus,
		},
		{
			name:       "quote request",
			input:      "I need a quote for 500 anodized brackets",
			wantIntent: IntentQuoteRequest,
		},
		{
			name:       "escalation to human",
			input:      "let me talk to a person please",
			wantIntent: IntentContactHuman,
		},
		{
			name:       "password reset",
			input:      "I forgot my password again",
			wantIntent: IntentAccountSecurity,
		},
		{
			name:       "purchase order status with number",
			input:      "any update? PO 99881 was due last week",
			wantIntent: IntentPurchaseOrderStatus,
			wantParams: map[string]string{ParamPONumber: "99881"},
		},
		{
			name:       "gibberish falls to unknown",
			input:      "xyzzy plugh frobnicate",
			wantIntent: IntentUnknown,
		},
		{
			name:       "empty input falls to unknown",
			input:      "   ",
			wantIntent: IntentUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.input)

			if res.Intent != tt.wantIntent {
				t.Errorf("Intent = %q, want %q (candidates: %+v)", res.Intent, tt.wantIntent, res.Candidates)
			}
			if res.Confidence < 0 || res.Confidence > 1 {
				t.Errorf("Confidence = %v, want within [0,1]", res.Confidence)
			}
			if tt.wantParams != nil && !reflect.DeepEqual(res.Params, tt.wantParams) {
				t.Errorf("Params = %v, want %v", res.Params, tt.wantParams)
			}
			if tt.wantIntent == IntentUnknown && res.Confidence != 0 {
				t.Errorf("unknown sentinel must carry confidence 0, got %v", res.Confidence)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewDefault()

	first := c.Classify("where is my order #777123 and my bill")
	for i := 0; i < 10; i++ {
		again := c.Classify("where is my order #777123 and my bill")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, first, again)
		}
	}
}

func TestSynonymWeakerThanPattern(t *testing.T) {
	c := NewDefault()

	// Synonym-only hit for invoice_status.
	viaSynonym := c.Classify("bill")
	if viaSynonym.Intent != IntentInvoiceStatus {
		t.Fatalf("synonym path resolved %q, want %q", viaSynonym.Intent, IntentInvoiceStatus)
	}

	// Direct pattern hit on the same intent must be more confident.
	viaPattern := c.Classify("what is the status of my invoice #4455")
	if viaPattern.Intent != IntentInvoiceStatus {
		t.Fatalf("pattern path resolved %q, want %q", viaPattern.Intent, IntentInvoiceStatus)
	}
	if viaSynonym.Confidence >= viaPattern.Confidence {
		t.Errorf("synonym confidence %v should be strictly below pattern confidence %v",
			viaSynonym.Confidence, viaPattern.Confidence)
	}
}

func TestPatternOutranksCompetingSynonym(t *testing.T) {
	c := NewDefault()

	// "cancel my order" is a direct order_cancel pattern; "bill" only adds
	// a 0.5 synonym signal for invoice_status.
	res := c.Classify("cancel my order, forget the bill")
	if res.Intent != IntentOrderCancel {
		t.Errorf("Intent = %q, want %q (candidates: %+v)", res.Intent, IntentOrderCancel, res.Candidates)
	}

	found := false
	for _, cand := range res.Candidates {
		if cand.Intent == IntentInvoiceStatus {
			found = true
			if cand.Score >= 1.0 {
				t.Errorf("synonym-only candidate score = %v, want < 1.0", cand.Score)
			}
		}
	}
	if !found {
		t.Error("expected invoice_status among candidates")
	}
}

func TestPhraseConsumesItsOwnTokens(t *testing.T) {
	c := NewDefault()

	// "purchase order" is a fixed phrase for purchase_order_status; the
	// "order" inside it must not also score order_status and win the
	// declaration-order tie-break.
	res := c.Classify("purchase order")
	if res.Intent != IntentPurchaseOrderStatus {
		t.Errorf("Intent = %q, want %q (candidates: %+v)", res.Intent, IntentPurchaseOrderStatus, res.Candidates)
	}
	for _, cand := range res.Candidates {
		if cand.Intent == IntentOrderStatus {
			t.Errorf("phrase word leaked into order_status: %+v", res.Candidates)
		}
	}

	// "stock report" maps to report_inventory; neither "stock" (product
	// availability) nor "report" (sales) may score separately.
	res = c.Classify("stock report")
	if res.Intent != IntentReportInventory {
		t.Errorf("Intent = %q, want %q (candidates: %+v)", res.Intent, IntentReportInventory, res.Candidates)
	}
	if len(res.Candidates) != 1 {
		t.Errorf("phrase words leaked into other intents: %+v", res.Candidates)
	}
}

func TestDeclarationOrderTieBreak(t *testing.T) {
	table, err := NewTable([]Definition{
		{Name: "alpha", Patterns: []Pattern{pat("", `widget`)}},
		{Name: "beta", Patterns: []Pattern{pat("", `widget`)}},
	})
	if err != nil {
		t.Fatal(err)
	}
	syn, err := NewSynonyms(table, nil)
	if err != nil {
		t.Fatal(err)
	}

	res := New(table, syn).Classify("one widget please")
	if res.Intent != "alpha" {
		t.Errorf("tie must resolve to earliest declared intent, got %q", res.Intent)
	}
	// Tied signals: confidence = 1 / (1 + 1 + 1).
	if diff := res.Confidence - 1.0/3.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Confidence = %v, want 1/3", res.Confidence)
	}
}

func TestSynonymsRejectUndeclaredIntent(t *testing.T) {
	table := DefaultTable()
	if _, err := NewSynonyms(table, map[string]string{"foo": "not_an_intent"}); err == nil {
		t.Error("expected error for synonym mapped to undeclared intent")
	}
}

func TestSynonymsMatchWholeTokensOnly(t *testing.T) {
	c := NewDefault()

	// "billboard" contains "bill" as a substring but not as a token.
	res := c.Classify("billboard")
	if res.Intent != IntentUnknown {
		t.Errorf("substring must not trigger synonym, got %q", res.Intent)
	}
}
