package enums

// Aggregate lifecycle statuses as they appear in persisted documents.
const (
	OrderStatusOpen      = "Open"
	OrderStatusPacked    = "Packed"
	OrderStatusScheduled = "Scheduled"
	OrderStatusProcessed = "Processed"

	ShipmentStatusPending = "Pending"
	ShipmentStatusShipped = "Shipped"

	TransferStatusScheduled = "Scheduled"
	TransferStatusProcessed = "Processed"
)
