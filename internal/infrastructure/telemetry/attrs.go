package telemetry

import "go.opentelemetry.io/otel/attribute"

// Shared attribute keys. Instruments across packages use these so that
// dashboards can join on consistent label names.
var (
	AttrTenantID = attribute.Key("tenant_id")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")

	AttrDBOperation = attribute.Key("db.operation")
	AttrDBTable     = attribute.Key("db.table")
	AttrDBState     = attribute.Key("db.pool.state")

	AttrDocumentType    = attribute.Key("document_type")
	AttrInvoiceStatus   = attribute.Key("invoice_status")
	AttrPaymentMethod   = attribute.Key("payment_method")
	AttrReminderChannel = attribute.Key("reminder_channel")
	AttrDeliveryStatus  = attribute.Key("delivery_status")
	AttrDecision        = attribute.Key("decision")
)

// Bucket boundaries, in seconds.
var (
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	DBDurationBuckets   = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
)
