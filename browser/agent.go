package browser

import "time"

// Element is an opaque handle to a DOM node, valid only with the Agent that
// produced it.
type Element interface{}

// Agent is the browsing collaborator the pipelines drive. Reads return a
// second boolean result: absence of an element or attribute is an expected
// outcome, never an error that unwinds past the entry being processed.
type Agent interface {
	Navigate(url string) error
	WaitForElement(selector string, timeout time.Duration) (Element, error)
	WaitForClickable(selector string, timeout time.Duration) (Element, error)
	FindAll(selector string) ([]Element, error)
	FindWithin(parent Element, selector string) (Element, bool)
	TypeInto(el Element, text string) error
	Click(el Element) error
	ScrollToBottom(el Element) error
	ReadText(el Element) (string, bool)
	ReadAttribute(el Element, name string) (string, bool)
	CurrentURL() (string, error)
	Close() error
}
