package content

import "regexp"

var (
	imgSrcPattern = regexp.MustCompile(`(?i)<img\b[^>]*?\ssrc\s*=\s*["']([^"']+)["'][^>]*>`)
	// Longer extensions come first so "docx" is not cut to "doc".
	fileURLPattern       = regexp.MustCompile(`(?i)https://[^"\s<>]+\.(?:pdf|docx|doc|xlsx|xls|pptx|ppt|zip|txt|csv)\b`)
	attachmentURLPattern = regexp.MustCompile(`(?i)https://api\.getguru\.com/api/v1/cards/[^"\s<>/]+/attachments/[^"\s<>]+`)
)

// FileURLs is the result of scanning a card body for downloadable files.
type FileURLs struct {
	// ImageURLs holds every img src in order of appearance, duplicates kept.
	ImageURLs []string
	// OtherFileURLs holds unique document and attachment URLs.
	OtherFileURLs []string
}

// ExtractFileURLs scans body for embedded images and linked files.
func ExtractFileURLs(body string) FileURLs {
	var out FileURLs
	for _, m := range imgSrcPattern.FindAllStringSubmatch(body, -1) {
		out.ImageURLs = append(out.ImageURLs, m[1])
	}

	seen := make(map[string]struct{})
	add := func(urls []string) {
		for _, u := range urls {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			out.OtherFileURLs = append(out.OtherFileURLs, u)
		}
	}
	add(fileURLPattern.FindAllString(body, -1))
	add(attachmentURLPattern.FindAllString(body, -1))
	return out
}
