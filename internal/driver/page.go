package driver

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Page is the surface the publish flows drive. The CDP implementation below
// translates calls into browser commands; tests substitute an in-memory page
// that resolves the same locators against fixture elements.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until the control is visible or the bound runs out;
	// an exhausted wait reports ErrWaitTimeout.
	WaitVisible(ctx context.Context, loc Locator, timeout time.Duration) error
	// Present reports whether the control exists right now, without waiting.
	Present(ctx context.Context, loc Locator) (bool, error)
	Click(ctx context.Context, loc Locator) error
	// Fill replaces the control's value; it never appends.
	Fill(ctx context.Context, loc Locator, value string) error
	// TypeText enters text keystroke by keystroke at the current focus.
	TypeText(ctx context.Context, text string) error
	// Hover moves the pointer onto the control without clicking.
	Hover(ctx context.Context, loc Locator) error
	// UploadViaChooser arms file-chooser interception, performs the
	// triggering click and answers the chooser with the ordered file list.
	UploadViaChooser(ctx context.Context, trigger Locator, files []string, timeout time.Duration) error
}

// ErrWaitTimeout marks a bounded visibility wait that ran out.
var ErrWaitTimeout = errors.New("wait timed out")

const (
	defaultActionTimeout = 30 * time.Second
	presenceProbeTimeout = 3 * time.Second
	keystrokeDelay       = 15 * time.Millisecond
	hoverSettle          = 300 * time.Millisecond
)

// ChromePage drives one attached browser tab over CDP.
type ChromePage struct {
	ctx    context.Context
	Logger *logrus.Entry
}

// NewChromePage wraps a chromedp tab context. The tab's lifetime is owned by
// whoever created the context, not by the page.
func NewChromePage(tab context.Context) *ChromePage {
	return &ChromePage{ctx: tab}
}

// run executes actions against the tab, honoring the caller's deadline and
// cancelation without detaching the tab itself.
func (p *ChromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	timeout := defaultActionTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	runCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	if done := ctx.Done(); done != nil {
		go func() {
			select {
			case <-done:
				cancel()
			case <-runCtx.Done():
			}
		}()
	}
	return chromedp.Run(runCtx, actions...)
}

func (p *ChromePage) Navigate(ctx context.Context, url string) error {
	p.logf("navigate %s", url)
	return errors.Wrapf(p.run(ctx, chromedp.Navigate(url)), "navigate %s", url)
}

func (p *ChromePage) WaitVisible(ctx context.Context, loc Locator, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultActionTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := p.run(waitCtx, chromedp.WaitVisible(loc.Selector(), chromedp.BySearch))
	if err != nil && waitCtx.Err() != nil && ctx.Err() == nil {
		return errors.Wrapf(ErrWaitTimeout, "%s after %s", loc, timeout)
	}
	return errors.Wrapf(err, "wait %s", loc)
}

func (p *ChromePage) Present(ctx context.Context, loc Locator) (bool, error) {
	probeCtx, cancel := context.WithTimeout(ctx, presenceProbeTimeout)
	defer cancel()
	var nodes []*cdp.Node
	err := p.run(probeCtx, chromedp.Nodes(loc.Selector(), &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return false, errors.Wrapf(err, "probe %s", loc)
	}
	return len(nodes) > 0, nil
}

func (p *ChromePage) Click(ctx context.Context, loc Locator) error {
	p.logf("click %s", loc)
	return errors.Wrapf(p.run(ctx, chromedp.Click(loc.Selector(), chromedp.BySearch, chromedp.NodeVisible)), "click %s", loc)
}

func (p *ChromePage) Fill(ctx context.Context, loc Locator, value string) error {
	p.logf("fill %s", loc)
	sel := loc.Selector()
	return errors.Wrapf(p.run(ctx,
		chromedp.WaitVisible(sel, chromedp.BySearch),
		chromedp.Clear(sel, chromedp.BySearch),
		chromedp.SendKeys(sel, value, chromedp.BySearch),
	), "fill %s", loc)
}

func (p *ChromePage) TypeText(ctx context.Context, text string) error {
	runes := []rune(text)
	p.logf("type %d chars", len(runes))
	typeCtx, cancel := context.WithTimeout(ctx, defaultActionTimeout+time.Duration(len(runes))*keystrokeDelay)
	defer cancel()
	return errors.Wrap(p.run(typeCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, r := range runes {
			if err := chromedp.KeyEvent(string(r)).Do(ctx); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(keystrokeDelay):
			}
		}
		return nil
	})), "type text")
}

// Hover moves the pointer onto the control and nudges it a few pixels, the
// way the platform expects before it reveals hover-only actions.
func (p *ChromePage) Hover(ctx context.Context, loc Locator) error {
	p.logf("hover %s", loc)
	sel := loc.Selector()
	return errors.Wrapf(p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var nodes []*cdp.Node
		if err := chromedp.Nodes(sel, &nodes, chromedp.BySearch, chromedp.NodeVisible).Do(ctx); err != nil {
			return err
		}
		if len(nodes) == 0 {
			return errors.New("no matching node")
		}
		quads, err := dom.GetContentQuads().WithNodeID(nodes[0].NodeID).Do(ctx)
		if err != nil {
			return err
		}
		if len(quads) == 0 || len(quads[0]) < 8 {
			return errors.New("node has no layout box")
		}
		q := quads[0]
		x := (q[0] + q[2] + q[4] + q[6]) / 4
		y := (q[1] + q[3] + q[5] + q[7]) / 4
		if err := input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(hoverSettle):
		}
		return input.DispatchMouseEvent(input.MouseMoved, x+5, y).Do(ctx)
	})), "hover %s", loc)
}

func (p *ChromePage) logf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Debugf(format, args...)
	}
}
