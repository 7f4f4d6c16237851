// Package video turns raw hosting URLs into playable iframe sources.
// Each supported provider has its own extraction pattern; anything else
// is served as-is in a generic iframe.
package video

import (
	"fmt"
	"regexp"

	"toonstream/internal/models"
)

var (
	// youtubeID matches the 11-character video ID in watch, embed, short
	// and youtu.be URL forms.
	youtubeID = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	// archiveID matches the item identifier in archive.org embed or
	// details URLs.
	archiveID = regexp.MustCompile(`archive\.org/(?:embed/|details/)([^/\s]+)`)
	// driveID matches the file ID in Google Drive file URLs.
	driveID = regexp.MustCompile(`drive\.google\.com/file/d/([^/\s]+)`)
)

// ExtractID returns the provider-specific identifier embedded in rawURL.
// It fails when the URL does not match the provider's pattern.
func ExtractID(videoType models.VideoType, rawURL string) (string, error) {
	var re *regexp.Regexp
	switch videoType {
	case models.VideoTypeYouTube:
		re = youtubeID
	case models.VideoTypeArchive:
		re = archiveID
	case models.VideoTypeDrive:
		re = driveID
	default:
		return "", fmt.Errorf("no extraction pattern for video type %q", videoType)
	}

	m := re.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("no %s id found in %q", videoType, rawURL)
	}
	return m[1], nil
}

// EmbedURL builds the iframe source for a movie's video. Typed URLs go
// through ID extraction and the provider's embed template; an unrecognized
// type falls back to the raw URL unchanged. A typed URL that fails
// extraction is an error so the caller can render an explicit failure
// state instead of a broken embed.
func EmbedURL(videoType models.VideoType, rawURL string) (string, error) {
	switch videoType {
	case models.VideoTypeYouTube:
		id, err := ExtractID(videoType, rawURL)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("https://www.youtube.com/embed/%s?autoplay=1&rel=0&modestbranding=1", id), nil
	case models.VideoTypeArchive:
		id, err := ExtractID(videoType, rawURL)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("https://archive.org/embed/%s", id), nil
	case models.VideoTypeDrive:
		id, err := ExtractID(videoType, rawURL)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("https://drive.google.com/file/d/%s/preview", id), nil
	default:
		return rawURL, nil
	}
}
