package services

import (
	"fmt"

	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
)

// uniqueSlug slugifies text and appends -2, -3, ... until exists reports the
// candidate free.
func uniqueSlug(text string, fallback string, exists func(string) (bool, error)) (string, error) {
	base := normalization.Slugify(text)
	if base == "" {
		base = fallback
	}
	candidate := base
	for n := 2; ; n++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
