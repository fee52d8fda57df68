package utils

// Server-side messages shown to survey respondents and dashboard users.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":            "ok",
		"submit.thanks":        "Thank you for your feedback!",
		"submit.contact":       "Please provide your name and email.",
		"submit.score":         "Please choose a score between 0 and 10.",
		"report.no_data":       "No survey data available. Please submit a survey first.",
		"error.storage":        "Your data could not be saved or read right now. Please try again later.",
		"error.internal":       "Something went wrong. Please try again later.",
		"error.bad_request":    "The request could not be understood.",
		"export.link_invalid":  "This download link is invalid or has expired.",
		"export.link_disabled": "Download links are not enabled on this server.",
	},
	"zh": {
		"health.ok":            "好的",
		"submit.thanks":        "感谢您的反馈！",
		"submit.contact":       "请填写您的姓名和邮箱。",
		"submit.score":         "请选择 0 到 10 之间的分数。",
		"report.no_data":       "暂无调查数据，请先提交一份问卷。",
		"error.storage":        "暂时无法保存或读取数据，请稍后再试。",
		"error.internal":       "出现错误，请稍后再试。",
		"error.bad_request":    "无法解析该请求。",
		"export.link_invalid":  "下载链接无效或已过期。",
		"export.link_disabled": "此服务器未启用下载链接。",
	},
}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
