package constant

import "commerce-assistant-be/pkg/intent"

const (
	// Quick replies attached to every locally synthesized failure message.
	// The storefront widget matches on these labels verbatim.
	QuickReplyTryAgain  = "Try again"
	QuickReplyContactUs = "Contact us"

	// Offline chat apology, shaped into a normal chat response by the
	// cache gateway so the session manager needs no special-casing.
	OfflineChatApology = "Sorry, I can't reach the assistant right now. Your message was not lost, please try again in a moment."

	// Machine-readable offline error payload fields.
	OfflineErrorCode    = "Offline"
	OfflineErrorMessage = "This content is not available offline yet."

	// Welcome greetings, picked by local time of day.
	WelcomeMorning   = "Good morning! How can I help you today?"
	WelcomeAfternoon = "Good afternoon! How can I help you today?"
	WelcomeEvening   = "Good evening! How can I help you today?"

	// Fallback reply for the unknown intent sentinel.
	UnknownIntentReply = "I'm not sure I understood that. Here are some things I can help with, or you can reach our team directly."
)

// WelcomeQuickReplies is the fixed quick-reply set on the synthesized
// welcome message.
var WelcomeQuickReplies = []string{
	"Track my order",
	"Request a quote",
	"Product availability",
	"Pay an invoice",
}

// UnknownIntentQuickReplies routes unmatched input to the help flow.
var UnknownIntentQuickReplies = []string{
	"Track my order",
	"Request a quote",
	QuickReplyContactUs,
}

// IntentReply is one entry of the per-intent response catalog used by the
// chat endpoint.
type IntentReply struct {
	Text         string
	QuickReplies []string
}

// IntentReplies maps every shipped intent to its canned reply. Replies
// with a {param} placeholder are filled with the extracted parameter.
var IntentReplies = map[string]IntentReply{
	intent.IntentOrderStatus: {
		Text:         "Let me look up order {order_number} for you. You can also see live status under My Orders.",
		QuickReplies: []string{"Track my order", "Order history"},
	},
	intent.IntentOrderTracking: {
		Text:         "I can help you track a shipment. Open My Orders and pick the order, or give me the tracking number.",
		QuickReplies: []string{"Order history", QuickReplyContactUs},
	},
	intent.IntentOrderCancel: {
		Text:         "Orders can be cancelled until they are picked for shipping. I've flagged order {order_number} for review.",
		QuickReplies: []string{"Order history", QuickReplyContactUs},
	},
	intent.IntentOrderHistory: {
		Text: "Your full order history is under My Account → Orders. Want me to open it?",
	},
	intent.IntentQuoteRequest: {
		Text:         "Happy to prepare a quote. Tell me the products and quantities, or upload your parts list and we'll come back within one business day.",
		QuickReplies: []string{"Upload parts list", QuickReplyContactUs},
	},
	intent.IntentQuoteStatus: {
		Text: "Quote {quote_number} is with our sales team. You'll get an email the moment it's ready.",
	},
	intent.IntentProductSearch: {
		Text:         "You can search the catalog right here. What are you looking for?",
		QuickReplies: []string{"Browse catalog"},
	},
	intent.IntentProductAvailability: {
		Text:         "Stock levels are shown live on every product page. Tell me the product and I'll check availability for you.",
		QuickReplies: []string{"Browse catalog", "Request a quote"},
	},
	intent.IntentProductPrice: {
		Text: "Prices are listed on each product page; volume pricing appears once you're signed in to a business account.",
	},
	intent.IntentProductCustomization: {
		Text:         "You can customize most products with your own logo or artwork. The 3D preview on the product page shows the result live.",
		QuickReplies: []string{"Browse catalog"},
	},
	intent.IntentInvoiceStatus: {
		Text:         "Invoice {invoice_number}: you can see its status and due date under My Account → Invoices.",
		QuickReplies: []string{"Pay an invoice"},
	},
	intent.IntentInvoicePayment: {
		Text:         "You can pay invoice {invoice_number} by card or bank transfer under My Account → Invoices.",
		QuickReplies: []string{"Invoice status"},
	},
	intent.IntentInvoiceCopy: {
		Text: "A PDF copy of invoice {invoice_number} can be downloaded from My Account → Invoices, or I can email it to your billing address.",
	},
	intent.IntentSupplierCatalog: {
		Text: "Catalog updates go through the Supplier Portal. Sign in there to upload or edit your product listings.",
	},
	intent.IntentSupplierRegistration: {
		Text:         "Great to hear you'd like to supply us. The supplier application form takes about ten minutes.",
		QuickReplies: []string{"Open supplier form", QuickReplyContactUs},
	},
	intent.IntentSupplierShipment: {
		Text: "Inbound shipments are booked through the Supplier Portal under Deliveries. Our warehouse receives Mon–Fri, 7:00–15:00.",
	},
	intent.IntentPurchaseOrderStatus: {
		Text: "Purchase order {po_number} status is visible in the Supplier Portal under Purchase Orders.",
	},
	intent.IntentPurchaseOrderCreate: {
		Text: "New purchase orders are raised from the admin portal under Purchasing. Want me to point your buyer there?",
	},
	intent.IntentCustomerAccount: {
		Text: "Your account details live under My Account → Profile. Anything specific you'd like to change?",
	},
	intent.IntentCustomerAddress: {
		Text: "Addresses are managed under My Account → Addresses. Changes apply to orders that haven't shipped yet.",
	},
	intent.IntentAccountSecurity: {
		Text:         "You can reset your password from the sign-in page via 'Forgot password'. The reset email arrives within a minute.",
		QuickReplies: []string{QuickReplyContactUs},
	},
	intent.IntentReportSales: {
		Text: "Sales reports are available in the admin portal under Reports → Sales, with CSV export.",
	},
	intent.IntentReportInventory: {
		Text: "Inventory reports are in the admin portal under Reports → Inventory, including low-stock alerts.",
	},
	intent.IntentHelp: {
		Text:         "Hi! I can help with orders, quotes, products, invoices and more. What do you need?",
		QuickReplies: WelcomeQuickReplies,
	},
	intent.IntentContactHuman: {
		Text:         "Of course, our team is available Mon–Fri, 8:00–18:00 at support@example.com or +1 555 0100.",
		QuickReplies: []string{QuickReplyTryAgain},
	},
}

// StaticManifest lists the widget assets pre-cached when the gateway is
// installed. Paths are origin-relative.
var StaticManifest = []string{
	"/assets/assistant/widget.js",
	"/assets/assistant/widget.css",
	"/assets/assistant/avatar.png",
	"/assets/assistant/decorations/gift-box.glb",
}

// Knowledge endpoint paths. The cache gateway treats exactly this list as
// cache-first; the prewarm routine walks it in order.
var KnowledgePaths = []string{
	"/api/assistant/v1/knowledge/faq",
	"/api/assistant/v1/knowledge/shipping",
	"/api/assistant/v1/knowledge/hours",
	"/api/assistant/v1/knowledge/contact",
}

// KnowledgeDocuments is the content served on the knowledge endpoints.
// Schemas are owned by this side and opaque to the delivery layer.
var KnowledgeDocuments = map[string]map[string]any{
	"faq": {
		"title": "Frequently asked questions",
		"entries": []map[string]string{
			{"q": "How long does delivery take?", "a": "Standard delivery is 2-4 business days; express is next business day."},
			{"q": "Can I return an item?", "a": "Unused items can be returned within 30 days. Customized items are non-returnable."},
			{"q": "Do you offer volume discounts?", "a": "Yes, request a quote for orders above 100 units."},
		},
	},
	"shipping": {
		"title":          "Shipping policy",
		"carriers":       []string{"DHL", "UPS", "PostNL"},
		"cutoff":         "Orders placed before 16:00 ship the same day.",
		"free_threshold": 150.0,
	},
	"hours": {
		"title":    "Opening hours",
		"weekdays": "08:00-18:00",
		"saturday": "09:00-13:00",
		"sunday":   "closed",
	},
	"contact": {
		"title": "Contact",
		"email": "support@example.com",
		"phone": "+1 555 0100",
		"chat":  "Use the assistant in the bottom-right corner.",
	},
}
