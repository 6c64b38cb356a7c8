package domain

// Ad is a single creative returned by the ad-network API. All fields are
// optional on the wire; Button defaults are applied by the client.
type Ad struct {
	Message         string `json:"message"`
	Image           string `json:"image"`         // image URL with impression tracking embedded
	ImagePreload    string `json:"image_preload"` // direct image URL, preferred when present
	Button          string `json:"button"`
	Link            string `json:"link"`
	NotificationURL string `json:"notification_url"` // GET to record an impression
	Title           string `json:"title"`
	Brand           string `json:"brand"`
}

// Button is an inline URL button attached to a rendered message.
type Button struct {
	Text string
	URL  string
}

// PhotoURL returns the image to render, preferring the direct preload URL,
// or "" when the creative is text-only.
func (a Ad) PhotoURL() string {
	if a.ImagePreload != "" {
		return a.ImagePreload
	}
	return a.Image
}
