// =============================================================================
// TSV to PDF Ticket Generator - Collaborator Credentials
// =============================================================================

package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Credentials carries the secrets required by the external collaborators.
// They are loaded once here and passed into constructors explicitly.
type Credentials struct {
	// QuickBooks OAuth application credentials.
	QBClientID     string
	QBClientSecret string
	QBRedirectURI  string

	// Dropbox Sign API key for e-signature dispatch.
	DropboxSignAPIKey string
}

// LoadCredentials reads a .env file (when present) into the process
// environment and snapshots the credential variables. A missing .env file is
// not an error; variables already exported win either way.
func LoadCredentials(envFile string) Credentials {
	if envFile == "" {
		envFile = ".env"
	}
	// Load ignores variables that are already set.
	_ = godotenv.Load(envFile)

	return Credentials{
		QBClientID:        os.Getenv("CLIENT_ID"),
		QBClientSecret:    os.Getenv("CLIENT_SECRET"),
		QBRedirectURI:     os.Getenv("REDIRECT_URI"),
		DropboxSignAPIKey: os.Getenv("DROPBOX_SIGN_API_KEY"),
	}
}
