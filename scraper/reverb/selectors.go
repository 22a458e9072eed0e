package reverb

// CSS selectors used across the scraper. Centralising them makes future
// site-markup changes a one-file fix.
const (
	// Sign-in form
	loginInputSelector    = `#user_session_login`
	passwordInputSelector = `#user_session_password`
	avatarSelector        = `.site-header__avatar`

	// Price-guide index
	indexReadySelector = `.product-card-img-container`

	// Listing page price-history table
	headingSelector   = `.heading-1`
	dateSelector      = `.date`
	conditionSelector = `.condition`
	priceSelector     = `.price-history-table-price`

	// Listing links carry this path fragment
	guidePathFragment = `/guide`
)
