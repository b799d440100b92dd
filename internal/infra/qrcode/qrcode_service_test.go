package qrcode

import (
	"testing"

	"bistro/config"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(size int, level string) *qrcodeService {
	cfg := &config.Config{QRCode: &config.QRCodeConfig{Size: size, ErrorCorrectionLevel: level}}

	return NewQRCodeService(cfg).(*qrcodeService)
}

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		errorCorrectionLevel string
		want                 qrcode.RecoveryLevel
	}{
		{"Low error correction", "L", qrcode.Low},
		{"Medium error correction", "medium", qrcode.Medium},
		{"High error correction", "Q", qrcode.High},
		{"Highest error correction", "highest", qrcode.Highest},
		{"Default error correction", "invalid", qrcode.Medium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(256, tt.errorCorrectionLevel)
			assert.Equal(t, tt.want, svc.errorCorrectionLevel)
			assert.Equal(t, defaultPickupPrefix, svc.prefix)
		})
	}
}

func TestQRCodeService_GeneratePickupTicket(t *testing.T) {
	for _, size := range []int{128, 256, 512} {
		svc := newService(size, "M")

		pngBytes, err := svc.GeneratePickupTicket("1a2b3c4d")
		require.NoError(t, err)
		require.Greater(t, len(pngBytes), 4)

		// PNG magic number
		assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, pngBytes[:4])
	}
}

func TestQRCodeService_GeneratePickupTicket_InvalidNumber(t *testing.T) {
	svc := newService(256, "M")

	for _, number := range []string{"", "1234", "1A2B3C4D", "1a2b3c4d5"} {
		_, err := svc.GeneratePickupTicket(number)
		assert.Error(t, err, number)
	}
}

func TestQRCodeService_ParsePickupTicket(t *testing.T) {
	svc := newService(256, "M")

	number, err := svc.ParsePickupTicket("bistro://pickup/1a2b3c4d")
	require.NoError(t, err)
	assert.Equal(t, "1a2b3c4d", number)

	_, err = svc.ParsePickupTicket("https://example.com/1a2b3c4d")
	assert.ErrorContains(t, err, "not a pickup ticket")

	_, err = svc.ParsePickupTicket("bistro://pickup/zzzz")
	assert.ErrorContains(t, err, "invalid order number")
}

func TestQRCodeService_CustomPrefix(t *testing.T) {
	cfg := &config.Config{QRCode: &config.QRCodeConfig{Size: 256, BaseURL: "https://bistro.example/t/"}}
	svc := NewQRCodeService(cfg)

	number, err := svc.ParsePickupTicket("https://bistro.example/t/00ff00ff")
	require.NoError(t, err)
	assert.Equal(t, "00ff00ff", number)
}
