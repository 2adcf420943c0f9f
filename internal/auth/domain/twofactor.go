package domain

// TwoFactorEnrollment is the result of generating a fresh TOTP secret for a
// user. The QR data URL and the base32 secret are both returned so the user
// can scan or type the secret into an authenticator app.
type TwoFactorEnrollment struct {
	Secret     string // base32 encoded shared secret
	OtpauthURL string // otpauth:// enrollment URI
	QRCodeURL  string // data:image/png;base64 rendering of the URI
	Issuer     string // application label shown in authenticator apps
	Account    string // account name (the user's email)
}
