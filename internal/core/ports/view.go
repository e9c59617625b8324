package ports

import "github.com/miapp/portal/internal/core/domain"

// ViewBinding maps logical regions to show/hide operations. Operations on a
// region the page does not contain are no-ops.
type ViewBinding interface {
	Show(region domain.Region)
	Hide(region domain.Region)
	SetText(region domain.Region, text string)
}

// Navigator performs the page-level navigations the synchronizer asks for.
type Navigator interface {
	// Reload re-renders the current page from scratch.
	Reload()
	// Redirect sends the visitor to url.
	Redirect(url string)
}

// Confirm asks the visitor a yes/no question and reports the answer.
type Confirm func() bool
