package intent

import (
	"fmt"
	"regexp"
)

// Intent identifiers. These are referenced by the storefront widget for
// quick-reply routing, so they are frozen once shipped. Declaration order
// in DefaultTable is the canonical order used for score tie-breaking.
const (
	IntentOrderStatus   = "order_status"
	IntentOrderTracking = "order_tracking"
	IntentOrderCancel   = "order_cancel"
	IntentOrderHistory  = "order_history"

	IntentQuoteRequest = "quote_request"
	IntentQuoteStatus  = "quote_status"

	IntentProductSearch        = "product_search"
	IntentProductAvailability  = "product_availability"
	IntentProductPrice         = "product_price"
	IntentProductCustomization = "product_customization"

	IntentInvoiceStatus  = "invoice_status"
	IntentInvoicePayment = "invoice_payment"
	IntentInvoiceCopy    = "invoice_copy"

	IntentSupplierCatalog      = "supplier_catalog"
	IntentSupplierRegistration = "supplier_registration"
	IntentSupplierShipment     = "supplier_shipment"

	IntentPurchaseOrderStatus = "purchase_order_status"
	IntentPurchaseOrderCreate = "purchase_order_create"

	IntentCustomerAccount = "customer_account"
	IntentCustomerAddress = "customer_address"
	IntentAccountSecurity = "account_security"

	IntentReportSales     = "report_sales"
	IntentReportInventory = "report_inventory"

	IntentHelp         = "help"
	IntentContactHuman = "contact_human"

	// IntentUnknown is the sentinel returned when no signal scores.
	// Callers route it to the help/escalation flow.
	IntentUnknown = "unknown"
)

// Parameter names used by capture groups.
const (
	ParamOrderNumber    = "order_number"
	ParamQuoteNumber    = "quote_number"
	ParamInvoiceNumber  = "invoice_number"
	ParamPONumber       = "po_number"
	ParamSearchTerm     = "search_term"
	ParamTrackingNumber = "tracking_number"
)

// Pattern is one text matcher for an intent. The first capture group (if
// any) is extracted under Param. Matching is case-insensitive; patterns
// within an intent are tried in declaration order.
type Pattern struct {
	Expr  *regexp.Regexp
	Param string
}

// Definition binds an intent identifier to its ordered pattern list.
type Definition struct {
	Name     string
	Patterns []Pattern
}

// Table is the immutable, versioned pattern table. Build it once at
// startup and inject it into the Classifier.
type Table struct {
	defs  []Definition
	index map[string]int
}

// NewTable builds a table from ordered definitions. Duplicate intent
// names are a programming error.
func NewTable(defs []Definition) (*Table, error) {
	index := make(map[string]int, len(defs))
	for i, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("intent at position %d has empty name", i)
		}
		if _, dup := index[d.Name]; dup {
			return nil, fmt.Errorf("duplicate intent name: %s", d.Name)
		}
		index[d.Name] = i
	}
	return &Table{defs: defs, index: index}, nil
}

// Definitions returns the ordered definitions.
func (t *Table) Definitions() []Definition {
	return t.defs
}

// Position returns the declaration index of an intent, or -1.
func (t *Table) Position(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Len returns the number of declared intents.
func (t *Table) Len() int {
	return len(t.defs)
}

func pat(param, expr string) Pattern {
	return Pattern{Expr: regexp.MustCompile(`(?i)` + expr), Param: param}
}

// DefaultTable returns the shipped pattern table (version 1).
// Intents are grouped by business domain; the group order below is the
// canonical tie-break order and must not be reshuffled between releases.
func DefaultTable() *Table {
	t, err := NewTable([]Definition{
		// --- Orders ---
		{Name: IntentOrderStatus, Patterns: []Pattern{
			pat(ParamOrderNumber, `where(?:'s|\s+is)\s+my\s+order\b(?:\s*#?\s*([0-9]{3,12}))?`),
			pat(ParamOrderNumber, `(?:status|update)\s+(?:of|on|for)\s+(?:my\s+)?order\b(?:\s*#?\s*([0-9]{3,12}))?`),
			pat(ParamOrderNumber, `order\s*#?\s*([0-9]{3,12})\b`),
			pat("", `has\s+my\s+order\s+(?:shipped|arrived|been\s+sent)`),
		}},
		{Name: IntentOrderTracking, Patterns: []Pattern{
			pat(ParamTrackingNumber, `track(?:ing)?\s+(?:number\s*)?#?\s*([A-Z0-9]{8,30})\b`),
			pat("", `track\s+(?:my\s+)?(?:order|package|shipment|delivery)`),
			pat("", `where\s+is\s+my\s+(?:package|shipment|delivery|parcel)`),
		}},
		{Name: IntentOrderCancel, Patterns: []Pattern{
			pat(ParamOrderNumber, `cancel\s+(?:my\s+)?order\b(?:\s*#?\s*([0-9]{3,12}))?`),
			pat("", `(?:i\s+)?(?:want|need|would\s+like)\s+to\s+cancel`),
		}},
		{Name: IntentOrderHistory, Patterns: []Pattern{
			pat("", `(?:my\s+)?(?:order|purchase)\s+history`),
			pat("", `(?:past|previous|recent)\s+orders`),
			pat("", `what\s+have\s+i\s+(?:ordered|bought|purchased)`),
		}},

		// --- Quotes ---
		{Name: IntentQuoteRequest, Patterns: []Pattern{
			pat("", `(?:request|get|need|want)\s+a\s+quote`),
			pat("", `quote\s+(?:me|for|on)\b`),
			pat("", `how\s+much\s+(?:would|will)\s+it\s+cost\s+to`),
		}},
		{Name: IntentQuoteStatus, Patterns: []Pattern{
			pat(ParamQuoteNumber, `(?:status\s+of|update\s+on)\s+(?:my\s+)?quote\b(?:\s*#?\s*([0-9]{3,12}))?`),
			pat(ParamQuoteNumber, `quote\s*#?\s*([0-9]{3,12})\b`),
			pat("", `did\s+you\s+(?:send|prepare|finish)\s+(?:my|the)\s+quote`),
		}},

		// --- Products ---
		{Name: IntentProductSearch, Patterns: []Pattern{
			pat(ParamSearchTerm, `(?:looking|searching)\s+for\s+(?:a\s+|an\s+|some\s+)?([a-z0-9][a-z0-9\s\-]{2,40})`),
			pat(ParamSearchTerm, `do\s+you\s+(?:sell|carry|offer)\s+([a-z0-9][a-z0-9\s\-]{2,40})`),
			pat("", `show\s+me\s+(?:your\s+)?(?:products|catalog|range)`),
		}},
		{Name: IntentProductAvailability, Patterns: []Pattern{
			pat(ParamSearchTerm, `do\s+you\s+have\s+(?:any\s+)?([a-z0-9][a-z0-9\s\-]{2,40}?)\s+in\s+stock`),
			pat("", `\bin\s+stock\b`),
			pat("", `(?:is|are)\s+(?:it|this|that|they|these)\s+available`),
			pat("", `(?:availability|back\s+in\s+stock|restock)`),
		}},
		{Name: IntentProductPrice, Patterns: []Pattern{
			pat("", `how\s+much\s+(?:is|are|does|do)\b`),
			pat("", `(?:price|pricing|cost)\s+(?:of|for|on)\b`),
			pat("", `what(?:'s|\s+is)\s+the\s+price`),
		}},
		{Name: IntentProductCustomization, Patterns: []Pattern{
			pat("", `(?:custom|customi[sz]e|personali[sz]e|engrave|decorat)`),
			pat("", `(?:my|our)\s+(?:logo|design|artwork)\b`),
			pat("", `3d\s+(?:preview|view|model)`),
		}},

		// --- Invoices ---
		{Name: IntentInvoiceStatus, Patterns: []Pattern{
			pat(ParamInvoiceNumber, `(?:status\s+of|update\s+on)\s+(?:my\s+)?invoice\b(?:\s*#?\s*([0-9]{3,12}))?`),
			pat(ParamInvoiceNumber, `invoice\s*#?\s*([0-9]{3,12})\b`),
			pat("", `(?:is\s+my|check\s+my)\s+invoice\b`),
			pat("", `(?:outstanding|unpaid|overdue)\s+(?:invoices?|balance)`),
		}},
		{Name: IntentInvoicePayment, Patterns: []Pattern{
			pat(ParamInvoiceNumber, `pay\s+(?:my\s+|an?\s+)?invoice\b(?:\s*#?\s*([0-9]{3,12}))?`),
			pat("", `(?:make|settle)\s+a\s+payment`),
			pat("", `how\s+(?:do|can)\s+i\s+pay\b`),
			pat("", `payment\s+(?:methods|options)`),
		}},
		{Name: IntentInvoiceCopy, Patterns: []Pattern{
			pat(ParamInvoiceNumber, `(?:copy|duplicate|pdf)\s+of\s+(?:my\s+)?invoice\b(?:\s*#?\s*([0-9]{3,12}))?`),
			pat("", `(?:resend|re-send|download)\s+(?:my\s+|the\s+)?invoice`),
		}},

		// --- Supplier operations ---
		{Name: IntentSupplierCatalog, Patterns: []Pattern{
			pat("", `(?:update|upload|manage)\s+(?:my\s+|our\s+)?(?:supplier\s+)?catalog`),
			pat("", `supplier\s+(?:portal|products|listing)`),
		}},
		{Name: IntentSupplierRegistration, Patterns: []Pattern{
			pat("", `(?:become|register\s+as|sign\s+up\s+as)\s+a\s+supplier`),
			pat("", `sell\s+(?:through|on|with)\s+(?:you|your\s+(?:site|platform|store))`),
		}},
		{Name: IntentSupplierShipment, Patterns: []Pattern{
			pat("", `(?:inbound|supplier)\s+(?:shipment|delivery|consignment)`),
			pat("", `(?:when|where)\s+(?:do|should)\s+(?:i|we)\s+(?:deliver|ship)\s+(?:the\s+)?(?:stock|goods|merchandise)`),
		}},

		// --- Purchase orders ---
		{Name: IntentPurchaseOrderStatus, Patterns: []Pattern{
			pat(ParamPONumber, `(?:purchase\s+order|po)\s*#?\s*([0-9]{3,12})\b`),
			pat("", `status\s+of\s+(?:my\s+|the\s+)?purchase\s+order`),
		}},
		{Name: IntentPurchaseOrderCreate, Patterns: []Pattern{
			pat("", `(?:create|raise|submit|issue)\s+a\s+(?:purchase\s+order|po)\b`),
			pat("", `new\s+purchase\s+order`),
		}},

		// --- Customers / account ---
		{Name: IntentCustomerAccount, Patterns: []Pattern{
			pat("", `(?:my|our)\s+account\s+(?:details|info|information|settings)`),
			pat("", `(?:update|change|edit)\s+(?:my|our)\s+(?:profile|account)\b`),
		}},
		{Name: IntentCustomerAddress, Patterns: []Pattern{
			pat("", `(?:change|update|edit)\s+(?:my|our|the)\s+(?:delivery\s+|shipping\s+|billing\s+)?address`),
			pat("", `wrong\s+address`),
		}},
		{Name: IntentAccountSecurity, Patterns: []Pattern{
			pat("", `(?:forgot|reset|change)\s+(?:my\s+)?password`),
			pat("", `(?:can(?:no|')t|unable\s+to)\s+(?:log\s*in|sign\s*in)`),
			pat("", `locked\s+out\s+of\s+my\s+account`),
		}},

		// --- Reports ---
		{Name: IntentReportSales, Patterns: []Pattern{
			pat("", `sales\s+(?:report|figures|numbers|summary)`),
			pat("", `(?:monthly|weekly|quarterly)\s+sales`),
		}},
		{Name: IntentReportInventory, Patterns: []Pattern{
			pat("", `(?:inventory|stock)\s+(?:report|levels?|summary)`),
			pat("", `how\s+many\s+(?:units|items)\s+(?:are\s+)?(?:left|remaining|on\s+hand)`),
		}},

		// --- Help / escalation ---
		{Name: IntentHelp, Patterns: []Pattern{
			pat("", `^(?:help|hello|hi|hey)\b`),
			pat("", `what\s+can\s+you\s+do`),
			pat("", `how\s+does\s+(?:this|it)\s+work`),
		}},
		{Name: IntentContactHuman, Patterns: []Pattern{
			pat("", `(?:talk|speak|chat)\s+(?:to|with)\s+(?:a\s+)?(?:human|person|agent|someone|representative)`),
			pat("", `(?:customer\s+(?:service|support)|contact\s+us)`),
			pat("", `call\s+me\s+back`),
		}},
	})
	if err != nil {
		panic(err) // shipped table is validated by tests
	}
	return t
}
