package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/common"
	"github.com/dmitrijs2005/gophprofile/internal/models"
)

const previewWidth = 32

func describePhoto(img *models.DecodedImage) string {
	if img == nil {
		return "none"
	}
	return fmt.Sprintf("%s %dx%d, %d bytes", img.Format, img.Width(), img.Height(), img.Size)
}

func describeStored(stored map[string]int) string {
	var parts []string
	for _, k := range []string{common.ProfileKey, common.ProfileImageKey} {
		if n, ok := stored[k]; ok {
			parts = append(parts, fmt.Sprintf("%s (%d bytes)", k, n))
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}

func maskPassword(pw string) string {
	if pw == "" {
		return "(not set)"
	}
	return strings.Repeat("*", 8)
}

// Show prints the current form and a preview of the photo.
func (a *App) Show(ctx context.Context) error {
	f := a.snapshot()

	var b strings.Builder
	fmt.Fprintln(&b, "Personal Information")
	fmt.Fprintf(&b, "  First name: %s\n", f.FirstName)
	fmt.Fprintf(&b, "  Last name:  %s\n", f.LastName)
	fmt.Fprintf(&b, "  Birthday:   %s\n", f.Birthday)
	fmt.Fprintf(&b, "  Gender:     %s\n", f.Gender)
	fmt.Fprintln(&b, "Contact")
	fmt.Fprintf(&b, "  Email:      %s\n", f.Email)
	fmt.Fprintln(&b, "Security")
	fmt.Fprintf(&b, "  Password:   %s\n", maskPassword(f.Password))
	fmt.Fprintf(&b, "Photo: %s\n", describePhoto(f.Photo))
	if f.Photo != nil {
		b.WriteString(renderPreview(f.Photo.Image, previewWidth))
	}
	stored, err := a.manager.Stored(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(&b, "Stored: %s\n", describeStored(stored))

	if err := f.Validate(); err != nil {
		fmt.Fprintln(&b, "Form is incomplete:")
		for _, e := range unjoin(err) {
			fmt.Fprintf(&b, "  - %v\n", e)
		}
	}

	printlnFn(strings.TrimRight(b.String(), "\n"))
	return nil
}
