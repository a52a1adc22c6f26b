package douyin

import "douyin/internal/driver"

// Creator-platform entry points.
const (
	imagePostURL = "https://creator.douyin.com/creator-micro/content/post/image?enter_from=publish_page&media_type=image&type=new"
	videoPostURL = "https://creator.douyin.com/creator-micro/content/upload?enter_from=publish_page"
)

// Page controls of the creator form. The platform hashes its class names, so
// everything anchors on visible text, placeholders and class fragments.
var (
	// titleInput doubles as the login gate: it only renders on the
	// authenticated layout. A file-input probe cannot tell the difference,
	// the page keeps a hidden upload input around even when logged out.
	titleInput = driver.ByPlaceholder("添加作品标题")

	// videoTitleInput only appears once the uploaded video finished
	// processing, which makes it the upload-complete signal on that page.
	videoTitleInput = driver.ByAttr("placeholder", "标题")

	uploadTrigger  = driver.ByText("点击上传")
	descriptionBox = driver.ByAttr("contenteditable", "true")

	hotspotPrompt = driver.ByText("点击输入热点词")
	hotspotOption = driver.ByAttr("class", "option")

	// 选择音乐 appears twice on the page; the working entry is the last one.
	musicEntry     = driver.ByText("选择音乐").Last()
	musicPanel     = driver.ByAttr("class", "sidesheet")
	musicUseLabel  = driver.ByText("使用").Within(driver.ByAttr("class", "sidesheet"))
	musicUseButton = driver.ByText("使用").Tag("button").HavingClass("primary")
	musicClose     = driver.ByAttr("class", "close").Within(driver.ByAttr("class", "sidesheet"))

	panelMask = driver.ByAttr("class", "sidesheet-mask")

	// submitButton must reject the 高清发布 variant next to it.
	submitButton = driver.ByText("发布").Tag("button").Excluding("高清")
)
