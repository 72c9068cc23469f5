package protocol

import "time"

// Message is a fully decoded envelope plus its typed body. Body holds
// exactly one of the Kind-specific structs below, selected by Header.Type.
type Message struct {
	Header
	Body any
}

// CodecHeaderBody announces the codec in use for the stream and carries
// its opaque bootstrap bytes (a FLAC STREAMINFO block, for this client).
type CodecHeaderBody struct {
	Codec   string
	Payload []byte
}

// WireChunkBody is one server-timestamped block of encoded audio.
// Timestamp is a signed duration in the server's clock, not wall time.
type WireChunkBody struct {
	Timestamp time.Duration
	Payload   []byte
}

// ServerSettingsBody mirrors the server's JSON settings object. JSON
// field names are camelCase on the wire; durations are integer
// milliseconds.
type ServerSettingsBody struct {
	BufferMs int  `json:"bufferMs"`
	Latency  int  `json:"latency"`
	Muted    bool `json:"muted"`
	Volume   int  `json:"volume"`
}

// TimeBody carries one side's observed clock delta for the NTP-style
// averaging in ClockModel. See internal/clock for how two of these
// (one per direction) combine into time_diff.
type TimeBody struct {
	Delta time.Duration
}

// HelloBody identifies this client to the server. JSON field names are
// PascalCase on the wire, matching the Snapcast server's expectations.
type HelloBody struct {
	Arch                      string `json:"Arch"`
	ClientName                string `json:"ClientName"`
	HostName                  string `json:"HostName"`
	ID                        string `json:"ID"`
	Instance                  int    `json:"Instance"`
	MAC                       string `json:"MAC"`
	OS                        string `json:"OS"`
	SnapStreamProtocolVersion int    `json:"SnapStreamProtocolVersion"`
	Version                   string `json:"Version"`
}

// StreamTagsBody is a free-form string-to-string metadata map (artist,
// title, album, ...) the server pushes out of band from audio.
type StreamTagsBody struct {
	Tags map[string]string
}
