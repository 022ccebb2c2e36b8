package mailer

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// message 与 domain.MailMessage 对应，Data 延迟到确定类型后再解析
type message struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// RenderScheduleReport 渲染排期报告邮件的正文
func RenderScheduleReport(data *domain.ScheduleReportMailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "schedule_report_email.html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildMessage 根据队列中的消息构建邮件
func BuildMessage(from string, body []byte) (*mail.Msg, error) {
	var m message
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}

	// 根据邮件类型解析数据
	switch m.Type {
	case "schedule_report":
		var data domain.ScheduleReportMailData
		if err := json.Unmarshal(m.Data, &data); err != nil {
			return nil, fmt.Errorf("邮件数据反序列化失败: %w", err)
		}

		html, err := RenderScheduleReport(&data)
		if err != nil {
			return nil, fmt.Errorf("无法渲染邮件模板: %w", err)
		}
		msg.SetBodyString(mail.TypeTextHTML, html)
		msg.Subject(fmt.Sprintf("节目排期报告 - %s", data.DatasetName))
	default:
		return nil, fmt.Errorf("不支持的邮件类型 %q", m.Type)
	}

	return msg, nil
}
