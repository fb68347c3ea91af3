package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// ErrStart marks a session that could not be brought up at all. The harvest
// job treats this as unrecoverable and stops the run.
var ErrStart = errors.New("browser session could not be started")

const (
	navTimeout  = 60 * time.Second
	findTimeout = 10 * time.Second
)

// chromeElement carries the resolved node plus, when the element came from a
// selector wait, the selector itself (needed for scrolling via script).
type chromeElement struct {
	sel  string
	node *cdp.Node
}

// ChromeAgent implements Agent on top of a chromedp session.
type ChromeAgent struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// Open launches a browser session. The returned agent owns the underlying
// Chrome process and must be closed by the caller.
func Open(headless bool) (*ChromeAgent, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if bin := findChromeBinary(); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("%w: %v", ErrStart, err)
	}

	return &ChromeAgent{
		ctx:     ctx,
		cancels: []context.CancelFunc{cancelCtx, cancelAlloc},
	}, nil
}

// Navigate loads the given URL and waits for the page load event.
func (a *ChromeAgent) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(a.ctx, navTimeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("browser: navigate %q: %w", url, err)
	}
	return nil
}

// WaitForElement blocks until the selector resolves or the timeout expires.
func (a *ChromeAgent) WaitForElement(selector string, timeout time.Duration) (Element, error) {
	ctx, cancel := context.WithTimeout(a.ctx, timeout)
	defer cancel()

	var nodes []*cdp.Node
	err := chromedp.Run(ctx,
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.Nodes(selector, &nodes, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("browser: wait for %q: %w", selector, err)
	}
	return &chromeElement{sel: selector, node: nodes[0]}, nil
}

// WaitForClickable blocks until the selector is visible and enabled.
func (a *ChromeAgent) WaitForClickable(selector string, timeout time.Duration) (Element, error) {
	ctx, cancel := context.WithTimeout(a.ctx, timeout)
	defer cancel()

	var nodes []*cdp.Node
	err := chromedp.Run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.WaitEnabled(selector, chromedp.ByQuery),
		chromedp.Nodes(selector, &nodes, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("browser: wait for clickable %q: %w", selector, err)
	}
	return &chromeElement{sel: selector, node: nodes[0]}, nil
}

// FindAll returns every element currently matching the selector; an empty
// result is not an error.
func (a *ChromeAgent) FindAll(selector string) ([]Element, error) {
	ctx, cancel := context.WithTimeout(a.ctx, findTimeout)
	defer cancel()

	var nodes []*cdp.Node
	err := chromedp.Run(ctx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("browser: find all %q: %w", selector, err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromeElement{node: n})
	}
	return elements, nil
}

// FindWithin resolves the first match of selector under parent.
func (a *ChromeAgent) FindWithin(parent Element, selector string) (Element, bool) {
	p, ok := a.element(parent)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(a.ctx, findTimeout)
	defer cancel()

	var nodes []*cdp.Node
	err := chromedp.Run(ctx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.FromNode(p.node), chromedp.AtLeast(0)),
	)
	if err != nil || len(nodes) == 0 {
		return nil, false
	}
	return &chromeElement{node: nodes[0]}, true
}

// TypeInto clears the element and types the text into it.
func (a *ChromeAgent) TypeInto(el Element, text string) error {
	e, ok := a.element(el)
	if !ok {
		return fmt.Errorf("browser: type into foreign element")
	}

	ctx, cancel := context.WithTimeout(a.ctx, findTimeout)
	defer cancel()

	ids := []cdp.NodeID{e.node.NodeID}
	err := chromedp.Run(ctx,
		chromedp.Clear(ids, chromedp.ByNodeID),
		chromedp.SendKeys(ids, text, chromedp.ByNodeID),
	)
	if err != nil {
		return fmt.Errorf("browser: type into element: %w", err)
	}
	return nil
}

// Click clicks the element.
func (a *ChromeAgent) Click(el Element) error {
	e, ok := a.element(el)
	if !ok {
		return fmt.Errorf("browser: click foreign element")
	}

	ctx, cancel := context.WithTimeout(a.ctx, findTimeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Click([]cdp.NodeID{e.node.NodeID}, chromedp.ByNodeID)); err != nil {
		return fmt.Errorf("browser: click element: %w", err)
	}
	return nil
}

// ScrollToBottom scrolls the element's own scroll container to its bottom.
// Only elements obtained through a selector wait can be scrolled.
func (a *ChromeAgent) ScrollToBottom(el Element) error {
	e, ok := a.element(el)
	if !ok || e.sel == "" {
		return fmt.Errorf("browser: element cannot be scrolled")
	}

	ctx, cancel := context.WithTimeout(a.ctx, findTimeout)
	defer cancel()

	js := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); if (el) { el.scrollTop = el.scrollHeight; } })()`,
		e.sel,
	)
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, nil)); err != nil {
		return fmt.Errorf("browser: scroll %q: %w", e.sel, err)
	}
	return nil
}

// ReadText returns the element's visible text. Absence of the element or a
// read failure reports ok=false rather than an error.
func (a *ChromeAgent) ReadText(el Element) (string, bool) {
	e, ok := a.element(el)
	if !ok {
		return "", false
	}

	ctx, cancel := context.WithTimeout(a.ctx, findTimeout)
	defer cancel()

	var text string
	if err := chromedp.Run(ctx, chromedp.Text([]cdp.NodeID{e.node.NodeID}, &text, chromedp.ByNodeID)); err != nil {
		return "", false
	}
	return text, true
}

// ReadAttribute returns the named attribute value; ok=false when the
// attribute is missing or the element is gone.
func (a *ChromeAgent) ReadAttribute(el Element, name string) (string, bool) {
	e, ok := a.element(el)
	if !ok {
		return "", false
	}

	ctx, cancel := context.WithTimeout(a.ctx, findTimeout)
	defer cancel()

	var value string
	var present bool
	err := chromedp.Run(ctx,
		chromedp.AttributeValue([]cdp.NodeID{e.node.NodeID}, name, &value, &present, chromedp.ByNodeID),
	)
	if err != nil || !present {
		return "", false
	}
	return value, true
}

// CurrentURL reports the canonical URL of the current page.
func (a *ChromeAgent) CurrentURL() (string, error) {
	ctx, cancel := context.WithTimeout(a.ctx, findTimeout)
	defer cancel()

	var url string
	if err := chromedp.Run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("browser: current url: %w", err)
	}
	return url, nil
}

// Close tears down the session and the Chrome process.
func (a *ChromeAgent) Close() error {
	for i := len(a.cancels) - 1; i >= 0; i-- {
		a.cancels[i]()
	}
	return nil
}

func (a *ChromeAgent) element(el Element) (*chromeElement, bool) {
	e, ok := el.(*chromeElement)
	return e, ok && e != nil && e.node != nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
