package assets

// AccessPoint is the normalized view of one AP from the venue listing.
// Upstream listings are duck-typed across deployments (serialNumber vs
// serial vs mac, ipAddress vs ip, status vs state); the adapter collapses
// the variants into this one shape at the boundary.
type AccessPoint struct {
	SerialNumber string `json:"serial_number"`
	Name         string `json:"name"`
	Model        string `json:"model"`
	IPAddress    string `json:"ip_address"`
	Status       string `json:"status"`
}
