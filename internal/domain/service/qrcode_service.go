package service

// QRCodeService defines the interface for pickup ticket generation and parsing
type QRCodeService interface {
	// GeneratePickupTicket renders the order number as a PNG QR code
	GeneratePickupTicket(orderNumber string) ([]byte, error)

	// ParsePickupTicket returns the order number carried by the decoded QR payload
	ParsePickupTicket(qrData string) (string, error)
}
