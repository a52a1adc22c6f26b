package douyin

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotLoggedIn reports that the creator page never reached its
// authenticated layout. The operator logs in by hand in the visible browser;
// nothing here touches credentials.
var ErrNotLoggedIn = errors.New("尚未登录抖音创作者平台，请在浏览器中完成登录")

// StepError pins a run failure to the step it happened in.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

// UploadError reports that the upload control was clicked but the platform
// never produced a usable file chooser.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return fmt.Sprintf("上传失败: %v", e.Err) }
func (e *UploadError) Unwrap() error { return e.Err }

// HotspotError reports that the keyword produced no selectable suggestion.
// The hotspot field must never go out as free text, so this fails the run.
type HotspotError struct {
	Keyword string
}

func (e *HotspotError) Error() string {
	return fmt.Sprintf("热点词 %q 没有匹配的候选", e.Keyword)
}

// StepTimeoutError reports which control a step was still waiting for when
// its bound ran out.
type StepTimeoutError struct {
	Step    string
	Target  string
	Timeout time.Duration
}

func (e *StepTimeoutError) Error() string {
	return fmt.Sprintf("%s 超时: 等待 %s 超过 %s", e.Step, e.Target, e.Timeout)
}

// SubmitAmbiguousError reports that no safe publish control was identified.
// The page shows two publish buttons and clicking the wrong one changes the
// outcome, so an uncertain match refuses to click at all.
type SubmitAmbiguousError struct {
	Detail string
}

func (e *SubmitAmbiguousError) Error() string {
	return "找不到可用的发布按钮: " + e.Detail
}
