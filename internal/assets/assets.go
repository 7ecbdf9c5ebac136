package assets

// Names of the built-in assets used for every report.
const (
	DefaultStyleName     = "report"
	DocumentTemplateName = "document"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// DefaultStyle returns the built-in report stylesheet.
func DefaultStyle() string {
	css, err := defaultLoader.LoadStyle(DefaultStyleName)
	if err != nil {
		panic("assets: built-in style missing: " + err.Error())
	}
	return css
}

// DocumentTemplate returns the built-in document template.
func DocumentTemplate() string {
	tmpl, err := defaultLoader.LoadTemplate(DocumentTemplateName)
	if err != nil {
		panic("assets: built-in template missing: " + err.Error())
	}
	return tmpl
}
