package googlebooks

// Item is one volume as returned by the upstream, flattened out of the
// volumeInfo envelope.
type Item struct {
	ID          string
	Title       string
	Authors     []string
	Publisher   string
	Description string
	Categories  []string
	ImageLinks  map[string]string // size label -> URL
	Identifiers map[string]string // "ISBN_13" / "ISBN_10" -> code
}

// Page is one raw page of search results. TotalItems is whatever the
// upstream reported and may disagree with len(Items).
type Page struct {
	Items      []Item
	TotalItems int
}

// Response is the outcome of a single HTTP exchange with the upstream:
// either a status/body pair or a transport error, never both.
type Response struct {
	Status int
	Body   []byte
	Err    error
}

// --- wire format ---

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	Description         string               `json:"description"`
	Categories          []string             `json:"categories"`
	ImageLinks          map[string]string    `json:"imageLinks"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

func (r volumesResponse) page() Page {
	items := make([]Item, 0, len(r.Items))
	for _, v := range r.Items {
		items = append(items, v.item())
	}
	total := r.TotalItems
	if total < 0 {
		total = 0
	}
	return Page{Items: items, TotalItems: total}
}

func (v volume) item() Item {
	info := v.VolumeInfo
	ids := make(map[string]string, len(info.IndustryIdentifiers))
	for _, id := range info.IndustryIdentifiers {
		if _, seen := ids[id.Type]; seen || id.Identifier == "" {
			continue
		}
		ids[id.Type] = id.Identifier
	}
	images := info.ImageLinks
	if images == nil {
		images = map[string]string{}
	}
	return Item{
		ID:          v.ID,
		Title:       info.Title,
		Authors:     info.Authors,
		Publisher:   info.Publisher,
		Description: info.Description,
		Categories:  info.Categories,
		ImageLinks:  images,
		Identifiers: ids,
	}
}
