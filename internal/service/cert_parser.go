package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ── 识别结果解析 ──

// extractionFieldKeys 证书十个识别字段（固定顺序）
var extractionFieldKeys = []string{
	"department",
	"competition_name",
	"student_id",
	"student_name",
	"award_category",
	"award_level",
	"competition_type",
	"organizer",
	"award_date",
	"advisor",
}

// buildExtractionPrompt 构造视觉模型的提取提示词
func buildExtractionPrompt() string {
	return `请仔细分析这张竞赛证书图片，提取以下信息：

1. 学生所在学院
2. 竞赛项目名称
3. 学号（13位数字）
4. 学生姓名
5. 获奖类别（国家级/省级）
6. 获奖等级（一等奖/二等奖/三等奖/金奖/银奖/铜奖/优秀奖等）
7. 竞赛类型（A类/B类）
8. 主办单位
9. 获奖时间（日期格式）
10. 指导教师姓名

请按照以下JSON格式返回结果，如果某个字段无法识别，请设置为null：

` + "```json" + `
{
    "department": "学院名称",
    "competition_name": "竞赛项目名称",
    "student_id": "13位学号",
    "student_name": "学生姓名",
    "award_category": "国家级或省级",
    "award_level": "获奖等级",
    "competition_type": "A类或B类",
    "organizer": "主办单位",
    "award_date": "获奖时间",
    "advisor": "指导教师"
}
` + "```" + `

请直接返回JSON，不要添加其他说明文字。`
}

var jsonBlockRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// fieldPatterns 纯文本兜底提取模式
var fieldPatterns = map[string]*regexp.Regexp{
	"department":       regexp.MustCompile(`学院[：:]\s*([^\n,，]+)`),
	"competition_name": regexp.MustCompile(`竞赛(?:项目)?(?:名称)?[：:]\s*([^\n,，]+)`),
	"student_id":       regexp.MustCompile(`学号[：:]\s*(\d{13})`),
	"student_name":     regexp.MustCompile(`(?:学生)?姓名[：:]\s*([^\n,，]+)`),
	"award_category":   regexp.MustCompile(`(?:获奖)?类别[：:]\s*(国家级|省级)`),
	"award_level":      regexp.MustCompile(`(?:获奖)?等级[：:]\s*([一二三]等奖|[金银铜]奖|优秀奖)`),
	"competition_type": regexp.MustCompile(`(?:竞赛)?类型[：:]\s*([AB]类)`),
	"organizer":        regexp.MustCompile(`主办(?:单位)?[：:]\s*([^\n,，]+)`),
	"award_date":       regexp.MustCompile(`(?:获奖)?时间[：:]\s*(\d{4}[年\-/]\d{1,2}[月\-/]\d{1,2}日?)`),
	"advisor":          regexp.MustCompile(`指导教师[：:]\s*([^\n,，]+)`),
}

// parseRecognitionText 解析模型返回的文本，得到十个字段的映射。
// 优先解析 ```json 代码块，其次整段文本按 JSON 解析，
// 均失败时逐字段正则兜底。无论输入如何，总是返回全量键。
func parseRecognitionText(text string) map[string]string {
	fields := make(map[string]string, len(extractionFieldKeys))
	for _, key := range extractionFieldKeys {
		fields[key] = ""
	}

	jsonStr := text
	if m := jsonBlockRe.FindStringSubmatch(text); m != nil {
		jsonStr = m[1]
	}

	dec := json.NewDecoder(strings.NewReader(jsonStr))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err == nil {
		for _, key := range extractionFieldKeys {
			if v, ok := raw[key]; ok && v != nil {
				s := strings.TrimSpace(stringifyField(v))
				if s != "" && s != "null" {
					fields[key] = s
				}
			}
		}
		return fields
	}

	// JSON 解析失败，逐字段正则提取
	for key, re := range fieldPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			fields[key] = strings.TrimSpace(m[1])
		}
	}
	return fields
}

// stringifyField 将 JSON 值还原为字面文本。
// 模型偶尔把学号输出成裸数字，UseNumber 保证不落入浮点科学计数法。
func stringifyField(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// awardDateLayouts 可识别的获奖时间写法（非零填充布局兼容零填充输入）
var awardDateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006年1月2日",
	"2006年1月2",
	"2006.1.2",
	"20060102",
}

// formatAwardDate 将获奖时间归一化为 YYYY-MM-DD，无法识别时原样返回
func formatAwardDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	for _, layout := range awardDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
