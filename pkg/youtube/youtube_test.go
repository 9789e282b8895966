package youtube

import "testing"

func TestExtractID(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ", true},
		{"youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"  dQw4w9WgXcQ  ", "dQw4w9WgXcQ", true},
		{"", "", false},
		{"short", "", false},
		{"https://vimeo.com/123456789", "", false},
		{"https://www.youtube.com/channel/UCabc", "", false},
		{"https://youtu.be/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ExtractID(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ExtractID(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEmbedURL(t *testing.T) {
	if got := EmbedURL("dQw4w9WgXcQ"); got != "https://www.youtube.com/embed/dQw4w9WgXcQ?rel=0&modestbranding=1" {
		t.Errorf("EmbedURL = %q", got)
	}
}
