// Package assets provides the stylesheet and document template embedded in
// every rendered analysis.
//
// Assets are organized by type:
//
//	styles/
//	└── {name}.css       # CSS styles (report.css is the default)
//	templates/
//	└── {name}.html      # html/template documents (document.html)
//
// Asset names are validated so a name can never escape its directory.
package assets
