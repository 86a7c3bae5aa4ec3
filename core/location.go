package core

import "strings"

// FragmentListener is notified when the displayed fragment changes.
type FragmentListener interface {
	FragmentChanged(fragment string)
}

// LocationProvider is the host capability the router navigates through:
// reading the current fragment, watching it change and displaying a new
// location. Fragments are formatted "#/path?query".
//
// PushURL only displays url; it must not notify listeners.
type LocationProvider interface {
	CurrentFragment() string
	OnFragmentChange(l FragmentListener)
	OffFragmentChange(l FragmentListener)
	PushURL(url string) error
}

// ExtractFragment returns the part of url from its first '#', or "#/" when
// url has none.
func ExtractFragment(url string) string {
	if i := strings.IndexByte(url, '#'); i >= 0 {
		return url[i:]
	}
	return "#/"
}

// FragmentPath returns the path-only portion of fragment: without the
// leading '#', with duplicate leading slashes collapsed, without the query
// string and without trailing slashes.
//
//	"#//user/42/?tab=posts" -> "/user/42"
//	"#/"                    -> ""
func FragmentPath(fragment string) string {
	p := strings.TrimPrefix(fragment, "#")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if strings.HasPrefix(p, "//") {
		p = "/" + strings.TrimLeft(p, "/")
	}
	return strings.TrimRight(p, "/")
}
