package douyin

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"douyin/internal/driver"
)

// Timeouts bounds each wait in the publish flows. Zero fields fall back to
// the defaults below.
type Timeouts struct {
	Navigate time.Duration
	Login    time.Duration
	Upload   time.Duration
	Element  time.Duration
	Suggest  time.Duration
	Reveal   time.Duration
	Submit   time.Duration
	// Process bounds the post-upload wait on the video page, where the
	// platform transcodes before the form appears.
	Process time.Duration
}

// DefaultTimeouts mirror what the creator page needs in practice.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Navigate: 60 * time.Second,
		Login:    15 * time.Second,
		Upload:   30 * time.Second,
		Element:  10 * time.Second,
		Suggest:  5 * time.Second,
		Reveal:   10 * time.Second,
		Submit:   10 * time.Second,
		Process:  120 * time.Second,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	def := DefaultTimeouts()
	if t.Navigate <= 0 {
		t.Navigate = def.Navigate
	}
	if t.Login <= 0 {
		t.Login = def.Login
	}
	if t.Upload <= 0 {
		t.Upload = def.Upload
	}
	if t.Element <= 0 {
		t.Element = def.Element
	}
	if t.Suggest <= 0 {
		t.Suggest = def.Suggest
	}
	if t.Reveal <= 0 {
		t.Reveal = def.Reveal
	}
	if t.Submit <= 0 {
		t.Submit = def.Submit
	}
	if t.Process <= 0 {
		t.Process = def.Process
	}
	return t
}

// Workflow drives publish runs against an attached page. One workflow runs
// one publish at a time; the page it borrows is owned by the browser manager
// and is never closed here, so the session stays reusable.
type Workflow struct {
	Page     driver.Page
	Timeouts Timeouts
	Logger   *logrus.Entry
	// Confirm blocks during the debug pause until the operator allows the
	// submit. Nil means continue immediately.
	Confirm func(context.Context) error

	state   atomic.Int32
	sleepFn func(context.Context, time.Duration) error
}

// State reports how far the current (or last) run got.
func (w *Workflow) State() State { return State(w.state.Load()) }

func (w *Workflow) setState(s State) { w.state.Store(int32(s)) }

// Run publishes one image post. Steps execute strictly in order, each gated
// on the previous; the first failure stops the run with the step name and
// the page left as-is for manual recovery.
func (w *Workflow) Run(ctx context.Context, post PostDescriptor) error {
	if err := post.Validate(); err != nil {
		return err
	}
	w.Timeouts = w.Timeouts.withDefaults()
	w.setState(StateStart)
	log := w.logger().WithFields(logrus.Fields{
		"run":    runID(),
		"images": len(post.Images),
	})

	log.Info("发布流程开始")
	if err := w.step(log, "打开发布页", StateNavigated, func() error {
		return w.navigate(ctx, imagePostURL)
	}); err != nil {
		return err
	}
	if err := w.step(log, "登录检查", StateAuthenticated, func() error {
		return w.ensureAuthenticated(ctx, titleInput)
	}); err != nil {
		return err
	}
	if err := w.step(log, "上传图片", StateImagesUploaded, func() error {
		return w.uploadImages(ctx, post.Images)
	}); err != nil {
		return err
	}
	if err := w.step(log, "填写标题", StateTitleSet, func() error {
		return w.fillTitle(ctx, titleInput, post.Title)
	}); err != nil {
		return err
	}
	if err := w.step(log, "填写描述", StateDescriptionSet, func() error {
		return w.typeDescription(ctx, post.Description)
	}); err != nil {
		return err
	}
	if post.Hotspot != "" {
		if err := w.step(log, "关联热点", StateHotspotSet, func() error {
			return w.attachHotspot(ctx, post.Hotspot)
		}); err != nil {
			return err
		}
	}
	if post.UseMusic {
		if err := w.step(log, "选择音乐", StateMusicSet, func() error {
			return w.chooseMusic(ctx)
		}); err != nil {
			return err
		}
	}
	if err := w.step(log, "准备发布", StateReadyToSubmit, func() error {
		return w.dismissOverlays(ctx)
	}); err != nil {
		return err
	}
	if post.Debug {
		w.setState(StateDebugPause)
		log.Info("调试暂停，等待操作者确认")
		if err := w.confirm(ctx); err != nil {
			w.setState(StateFailed)
			return &StepError{Step: "调试暂停", Err: err}
		}
	}
	if err := w.step(log, "发布", StateSubmitted, func() error {
		return w.submit(ctx)
	}); err != nil {
		return err
	}
	log.Info("已发布")
	return nil
}

// step runs one gated stage and advances the state on success.
func (w *Workflow) step(log *logrus.Entry, name string, next State, fn func() error) error {
	if err := fn(); err != nil {
		w.setState(StateFailed)
		log.WithError(err).Errorf("%s 失败", name)
		return &StepError{Step: name, Err: err}
	}
	w.setState(next)
	log.Infof("%s 完成", name)
	return nil
}

func (w *Workflow) navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, w.Timeouts.Navigate)
	defer cancel()
	if err := w.Page.Navigate(navCtx, url); err != nil {
		return err
	}
	// The page keeps hydrating well past the load event.
	return w.sleep(ctx, 5*time.Second)
}

// ensureAuthenticated waits for the authenticated-only gate control. Until
// it passes, no action that mutates the page may run.
func (w *Workflow) ensureAuthenticated(ctx context.Context, gate driver.Locator) error {
	if err := w.Page.WaitVisible(ctx, gate, w.Timeouts.Login); err != nil {
		if errors.Is(err, driver.ErrWaitTimeout) {
			return ErrNotLoggedIn
		}
		return err
	}
	return nil
}

func (w *Workflow) uploadImages(ctx context.Context, images []string) error {
	abs := make([]string, 0, len(images))
	for _, img := range images {
		// The chooser answer lands in the browser process, which has its
		// own working directory; relative paths would resolve there.
		p, err := filepath.Abs(img)
		if err != nil {
			return err
		}
		abs = append(abs, p)
	}
	if err := w.Page.WaitVisible(ctx, uploadTrigger, w.Timeouts.Element); err != nil {
		return w.timeoutOr("上传图片", uploadTrigger, w.Timeouts.Element, err)
	}
	if err := w.Page.UploadViaChooser(ctx, uploadTrigger, abs, w.Timeouts.Upload); err != nil {
		return &UploadError{Err: err}
	}
	// Thumbnails render before the form below them settles.
	return w.sleep(ctx, 3*time.Second)
}

func (w *Workflow) fillTitle(ctx context.Context, input driver.Locator, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	if err := w.Page.Fill(ctx, input, title); err != nil {
		return err
	}
	return w.sleep(ctx, 500*time.Millisecond)
}

// typeDescription enters the text keystroke by keystroke. The description
// region is a rich-text editor that ignores plain value writes.
func (w *Workflow) typeDescription(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if err := w.Page.Click(ctx, descriptionBox); err != nil {
		return err
	}
	if err := w.Page.TypeText(ctx, text); err != nil {
		return err
	}
	return w.sleep(ctx, 500*time.Millisecond)
}

// attachHotspot types the keyword and picks the first platform suggestion.
// No suggestion within the bound fails the run; the field must never be
// submitted as free text.
func (w *Workflow) attachHotspot(ctx context.Context, keyword string) error {
	if err := w.Page.Click(ctx, hotspotPrompt); err != nil {
		return err
	}
	if err := w.sleep(ctx, time.Second); err != nil {
		return err
	}
	if err := w.Page.TypeText(ctx, keyword); err != nil {
		return err
	}
	if err := w.Page.WaitVisible(ctx, hotspotOption, w.Timeouts.Suggest); err != nil {
		if errors.Is(err, driver.ErrWaitTimeout) {
			return &HotspotError{Keyword: keyword}
		}
		return err
	}
	if err := w.Page.Click(ctx, hotspotOption); err != nil {
		return err
	}
	return w.sleep(ctx, time.Second)
}

// chooseMusic opens the platform music panel and applies the first
// recommended track. The 使用 control only exists while its row is hovered,
// so revealing and clicking stay separate steps under one deadline.
func (w *Workflow) chooseMusic(ctx context.Context) error {
	if err := w.Page.Click(ctx, musicEntry); err != nil {
		return err
	}
	if err := w.sleep(ctx, 2*time.Second); err != nil {
		return err
	}
	if err := w.Page.WaitVisible(ctx, musicPanel, w.Timeouts.Element); err != nil {
		return w.timeoutOr("选择音乐", musicPanel, w.Timeouts.Element, err)
	}

	deadline := time.Now().Add(w.Timeouts.Reveal)
	var lastErr error
	for {
		if err := w.Page.Hover(ctx, musicUseLabel); err != nil {
			lastErr = err
		} else if err := w.Page.WaitVisible(ctx, musicUseButton, 2*time.Second); err != nil {
			lastErr = err
		} else {
			lastErr = nil
			break
		}
		if !time.Now().Before(deadline) {
			break
		}
		w.logger().Warnf("使用按钮尚未出现，重新悬停: %v", lastErr)
		if err := w.sleep(ctx, 500*time.Millisecond); err != nil {
			return err
		}
	}
	if lastErr != nil {
		return &StepTimeoutError{Step: "选择音乐", Target: musicUseButton.String(), Timeout: w.Timeouts.Reveal}
	}

	if err := w.Page.Click(ctx, musicUseButton); err != nil {
		return err
	}
	if err := w.sleep(ctx, 2*time.Second); err != nil {
		return err
	}
	return w.closeMusicPanel(ctx)
}

// closeMusicPanel dismisses the side panel; left open it covers the submit
// button.
func (w *Workflow) closeMusicPanel(ctx context.Context) error {
	present, err := w.Page.Present(ctx, musicClose)
	if err != nil {
		return err
	}
	if present {
		if err := w.Page.Click(ctx, musicClose); err != nil {
			return err
		}
	}
	return w.sleep(ctx, time.Second)
}

// dismissOverlays clears a leftover panel mask that would swallow the
// submit click.
func (w *Workflow) dismissOverlays(ctx context.Context) error {
	present, err := w.Page.Present(ctx, panelMask)
	if err != nil {
		return err
	}
	if present {
		if err := w.Page.Click(ctx, panelMask); err != nil {
			return err
		}
		return w.sleep(ctx, time.Second)
	}
	return nil
}

// submit clicks the publish button exactly once. Zero safe matches within
// the bound refuses the click entirely.
func (w *Workflow) submit(ctx context.Context) error {
	if err := w.Page.WaitVisible(ctx, submitButton, w.Timeouts.Submit); err != nil {
		if errors.Is(err, driver.ErrWaitTimeout) {
			return &SubmitAmbiguousError{Detail: submitButton.String()}
		}
		return err
	}
	if err := w.Page.Click(ctx, submitButton); err != nil {
		return err
	}
	return w.sleep(ctx, 3*time.Second)
}

func (w *Workflow) timeoutOr(step string, loc driver.Locator, bound time.Duration, err error) error {
	if errors.Is(err, driver.ErrWaitTimeout) {
		return &StepTimeoutError{Step: step, Target: loc.String(), Timeout: bound}
	}
	return err
}

func (w *Workflow) confirm(ctx context.Context) error {
	if w.Confirm != nil {
		return w.Confirm(ctx)
	}
	return nil
}

func (w *Workflow) sleep(ctx context.Context, d time.Duration) error {
	if w.sleepFn != nil {
		return w.sleepFn(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (w *Workflow) logger() *logrus.Entry {
	if w.Logger != nil {
		return w.Logger
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	return logrus.NewEntry(quiet)
}

func runID() string {
	return uuid.NewString()[:8]
}
