package dto

// FeatureCheckResponse reports a single flag evaluation for the caller's org.
type FeatureCheckResponse struct {
	Feature string `json:"feature"`
	Enabled bool   `json:"enabled"`
}

// FeatureReloadResponse reports the result of an admin-triggered reload.
type FeatureReloadResponse struct {
	Flags    []string `json:"flags"`
	Notified bool     `json:"notified"`
}
