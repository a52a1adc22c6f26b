package douyin

import (
	"context"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// RunVideo publishes one video post. The flow mirrors Run but gates login
// on the upload control (the video page renders its title field only after
// the upload finishes) and waits out the platform-side processing before
// touching the form.
func (w *Workflow) RunVideo(ctx context.Context, video VideoDescriptor) error {
	if err := video.Validate(); err != nil {
		return err
	}
	w.Timeouts = w.Timeouts.withDefaults()
	w.setState(StateStart)
	log := w.logger().WithFields(logrus.Fields{
		"run":   runID(),
		"video": filepath.Base(video.Video),
	})

	log.Info("视频发布流程开始")
	if err := w.step(log, "打开上传页", StateNavigated, func() error {
		return w.navigate(ctx, videoPostURL)
	}); err != nil {
		return err
	}
	if err := w.step(log, "登录检查", StateAuthenticated, func() error {
		return w.ensureAuthenticated(ctx, uploadTrigger)
	}); err != nil {
		return err
	}
	if err := w.step(log, "上传视频", StateVideoUploaded, func() error {
		return w.uploadVideo(ctx, video.Video)
	}); err != nil {
		return err
	}
	if err := w.step(log, "填写标题", StateTitleSet, func() error {
		return w.fillTitle(ctx, videoTitleInput, video.Title)
	}); err != nil {
		return err
	}
	if err := w.step(log, "填写描述", StateDescriptionSet, func() error {
		return w.typeDescription(ctx, video.Description)
	}); err != nil {
		return err
	}
	if video.Hotspot != "" {
		if err := w.step(log, "关联热点", StateHotspotSet, func() error {
			return w.attachHotspot(ctx, video.Hotspot)
		}); err != nil {
			return err
		}
	}
	if err := w.step(log, "准备发布", StateReadyToSubmit, func() error {
		return w.dismissOverlays(ctx)
	}); err != nil {
		return err
	}
	if err := w.step(log, "发布", StateSubmitted, func() error {
		return w.submit(ctx)
	}); err != nil {
		return err
	}
	log.Info("已发布")
	return nil
}

// uploadVideo hands the file to the chooser and then waits for the form the
// platform reveals once transcoding is done. The title field appearing is
// the only reliable completion signal.
func (w *Workflow) uploadVideo(ctx context.Context, video string) error {
	abs, err := filepath.Abs(video)
	if err != nil {
		return err
	}
	if err := w.Page.UploadViaChooser(ctx, uploadTrigger, []string{abs}, w.Timeouts.Upload); err != nil {
		return &UploadError{Err: err}
	}
	if err := w.sleep(ctx, 10*time.Second); err != nil {
		return err
	}
	if err := w.Page.WaitVisible(ctx, videoTitleInput, w.Timeouts.Process); err != nil {
		return w.timeoutOr("上传视频", videoTitleInput, w.Timeouts.Process, err)
	}
	return w.sleep(ctx, 2*time.Second)
}
