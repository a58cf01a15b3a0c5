// Package branding holds the names shown across the site and back-office.
package branding

const (
	// AppName is the company name used in page titles.
	AppName = "AI Haven Labs"
	// ProductName is the flagship product.
	ProductName = "Pathway"
	// AdminTitle is the back-office title suffix.
	AdminTitle = "Admin"
)
