package webhook

import (
	"golang-line-connect/internal/domain"
	"golang-line-connect/pkg/signature"
)

// Parser authenticates and decodes webhook deliveries for one channel
type Parser struct {
	channelSecret []byte
}

// NewParser func - Creates a parser bound to the channel secret
func NewParser(channelSecret string) *Parser {
	return &Parser{channelSecret: []byte(channelSecret)}
}

// Parse verifies the X-Line-Signature header against the raw body and only
// then decodes it. Nothing is decoded when verification fails.
func (p *Parser) Parse(body []byte, signatureHeader string) (*domain.CallbackRequest, error) {
	if signatureHeader == "" {
		return nil, domain.ErrMissingSignature
	}
	if !signature.Verify(body, signatureHeader, p.channelSecret) {
		return nil, domain.ErrSignatureInvalid
	}
	return Decode(body)
}
