package domain

import "io"

// AudioMimeType is the media type of captured audio. The browser recorder
// produces webm containers.
const AudioMimeType = "audio/webm"

// FileRef is a candidate attachment held in a draft. Immutable once added;
// identity is structural, so duplicate name/size pairs are allowed.
type FileRef struct {
	Name      string
	MediaType string
	SizeBytes int64
	Raw       io.Reader
}

// AudioCapture is a finished voice recording. A draft holds at most one;
// setting a new one discards the previous.
type AudioCapture struct {
	Bytes    []byte
	MimeType string
}

// LatLng is an optional geographic reference attached to a draft.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Draft is the in-progress manifestation owned by the wizard. Created empty,
// mutated in place by each step, discarded after a successful submission.
type Draft struct {
	Assunto     string
	Conteudo    string
	Audio       *AudioCapture
	Anexos      []FileRef
	Anonimo     bool
	Localizacao *LatLng
}

// Empty reports whether nothing at all has been filled in. A wholly empty
// draft is the only thing the wizard refuses to submit.
func (d Draft) Empty() bool {
	return d.Assunto == "" && d.Conteudo == "" && d.Audio == nil && len(d.Anexos) == 0
}
