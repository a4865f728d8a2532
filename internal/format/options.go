package format

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// Options controls how values are printed. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// YesNo holds the words printed for true and false.
	YesNo [2]string
	// IndentWidth is the number of spaces per nesting level.
	IndentWidth int
	// LabelTransform rewrites the label of each line of a scalar list.
	// Nil leaves labels unchanged.
	LabelTransform func(string) string
	// ListMarkers open and close each element of a list of structures.
	ListMarkers [2]string
}

func DefaultOptions() Options {
	return Options{
		YesNo:       [2]string{"yes", "no"},
		IndentWidth: 2,
		ListMarkers: [2]string{"{", "}"},
	}
}

// Singularize turns a plural label into its singular form, so a "tags"
// list prints one "tag" per line. A trailing ':' is preserved.
func Singularize(label string) string {
	if base, ok := strings.CutSuffix(label, ":"); ok {
		return inflection.Singular(base) + ":"
	}
	return inflection.Singular(label)
}

func (o Options) transform(label string) string {
	if o.LabelTransform == nil || label == "" {
		return label
	}
	return o.LabelTransform(label)
}
