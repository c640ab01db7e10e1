package repository

// PurgerRepository defines the selector-matching engine that reduces a
// stylesheet to the rules used by an HTML document.
type PurgerRepository interface {
	Purge(html, css string) (string, error)
}
