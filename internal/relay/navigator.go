package relay

import "github.com/pkg/browser"

// Navigator hands a URL to whatever displays search results.
type Navigator interface {
	Navigate(url string) error
}

// BrowserNavigator opens URLs in the host's default browser.
type BrowserNavigator struct{}

func (BrowserNavigator) Navigate(url string) error {
	return browser.OpenURL(url)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string) error

func (f NavigatorFunc) Navigate(url string) error { return f(url) }
