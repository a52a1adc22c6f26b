package driver

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

// ErrChooserTimeout marks a triggering click that never produced a file
// chooser within its bound.
var ErrChooserTimeout = errors.New("file chooser did not open")

const disarmTimeout = 5 * time.Second

// UploadViaChooser answers the platform's native file dialog with files, in
// the given order. Interception is armed and the event listener registered
// before the triggering click; arming afterwards loses the race against the
// dialog event. Interception is disarmed again on every exit path so later
// steps see normal chooser behavior.
func (p *ChromePage) UploadViaChooser(ctx context.Context, trigger Locator, files []string, timeout time.Duration) error {
	if len(files) == 0 {
		return errors.New("no files to upload")
	}
	if timeout <= 0 {
		timeout = defaultActionTimeout
	}

	opened := make(chan *page.EventFileChooserOpened, 1)
	listenCtx, stopListening := context.WithCancel(p.ctx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventFileChooserOpened); ok {
			select {
			case opened <- e:
			default:
			}
		}
	})

	if err := p.run(ctx, page.SetInterceptFileChooserDialog(true)); err != nil {
		return errors.Wrap(err, "arm file chooser interception")
	}
	defer func() {
		disarmCtx, cancel := context.WithTimeout(context.Background(), disarmTimeout)
		defer cancel()
		_ = p.run(disarmCtx, page.SetInterceptFileChooserDialog(false))
	}()

	if err := p.Click(ctx, trigger); err != nil {
		return err
	}

	select {
	case ev := <-opened:
		p.logf("file chooser opened, sending %d files", len(files))
		return errors.Wrap(p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			return dom.SetFileInputFiles(files).WithBackendNodeID(ev.BackendNodeID).Do(ctx)
		})), "set chooser files")
	case <-time.After(timeout):
		return ErrChooserTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
