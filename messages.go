package spadeploy

// Messages holds every human-readable diagnostic reported by the loader
// and the scanner.
type Messages struct {
	BadProvider        string
	MissingCredentials string
	MissingIndexHTML   string
	MissingProject     string
	MissingRegion      string
	MissingService     string
	MissingStage       string
	OmittedStage       string
	UnusedCertificate  string
}

// DefaultMessages returns the stock message set.
func DefaultMessages() Messages {
	return Messages{
		BadProvider:        "provider must be aws or google",
		MissingCredentials: "credentials are missing",
		MissingIndexHTML:   "index.html is missing",
		MissingProject:     "project is missing",
		MissingRegion:      "region is missing",
		MissingService:     "service is missing",
		MissingStage:       "stage is missing",
		OmittedStage:       "stage is omitted, the provider default will be used",
		UnusedCertificate:  "certificateName is ignored without domainName",
	}
}
