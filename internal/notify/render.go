package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const layout = `{{define "layout"}}<div style="font-family:'Segoe UI',Arial,sans-serif;line-height:1.6;color:#333;background-color:#f8fafc;padding:20px;">
<div style="max-width:600px;background:#fff;margin:auto;border-radius:8px;overflow:hidden;">
<div style="background:{{.Color}};color:#fff;text-align:center;padding:20px;"><h2 style="margin:0;">{{.Heading}}</h2></div>
<div style="padding:25px;">
<p>Dear <strong>{{.Data.Name}}</strong>,</p>
{{template "body" .Data}}
<hr style="border:none;border-top:1px solid #e5e7eb;margin:30px 0;">
<p style="font-size:0.9em;color:#666;">This is an automated message. Please do not reply.</p>
<p style="text-align:center;color:#aaa;font-size:0.8em;">&copy; {{.Year}} {{.School}}. All rights reserved.</p>
</div></div></div>{{end}}`

type message struct {
	subject string
	heading string
	color   string
	body    string
}

var messages = map[string]message{
	"intake_confirmation": {
		subject: "SV8BSHS Enrollment Application Received",
		heading: "Application Received",
		color:   "#1e40af",
		body: `<p>We have received your enrollment application. Our Admissions Office will review your submitted documents.</p>
<p><strong>Tracking Code:</strong> {{.TrackingCode}}</p>
<p>Keep this code. You will use it to follow your application and, once approved, to sign in.</p>`,
	},
	"under_review": {
		subject: "SV8BSHS Enrollment Review in Progress",
		heading: "Enrollment Status Update",
		color:   "#1e40af",
		body: `<p>Your enrollment submission has been <strong>confirmed</strong> and is now under review by our <strong>Admissions Office</strong>.</p>
<p><strong>Tracking Code / Student ID:</strong> {{.TrackingCode}}</p>`,
	},
	"enrolled": {
		subject: "SV8BSHS Enrollment Approved & Account Details",
		heading: "Enrollment Approved",
		color:   "#16a34a",
		body: `<p>Congratulations! Your enrollment has been <strong>officially approved</strong>.</p>
<p><strong>Please keep your login credentials in a safe place.</strong></p>
<p><strong>Student ID:</strong> {{.TrackingCode}}<br><strong>Password:</strong> {{.Password}}</p>`,
	},
	"temporary_enrolled": {
		subject: "SV8BSHS - Temporary Enrollment Status",
		heading: "Temporary Enrollment Granted",
		color:   "#f59e0b",
		body: `<p>Your enrollment has been granted <strong>temporary status</strong>.</p>
<p><strong>Reason for Temporary Status:</strong> {{.Reason}}</p>
<p><strong>Student ID:</strong> {{.TrackingCode}}<br><strong>Password:</strong> {{.Password}}</p>
<p>Complete the pending requirements within <strong>{{.WindowDays}} days</strong> to keep your enrollment.</p>`,
	},
	"rejected": {
		subject: "SV8BSHS Enrollment Application Result",
		heading: "Enrollment Application Result",
		color:   "#b91c1c",
		body: `<p>After reviewing your submitted enrollment documents, we were unable to approve your application at this time.</p>
<p><strong>Reason for Rejection:</strong> {{.Reason}}</p>
<p>You are welcome to apply again in the next enrollment period once you are able to address the reason above.</p>`,
	},
	"missing_documents": {
		subject: "SV8BSHS Enrollment - Missing Requirements",
		heading: "Missing Requirements",
		color:   "#f59e0b",
		body: `<p>The following requirements are still missing from your enrollment file:</p>
<ul>{{range .Documents}}<li>{{.}}</li>{{end}}</ul>
<p>Please submit them to the Registrar's Office as soon as possible.</p>`,
	},
}

// Renderer turns a payload into a subject and an HTML body.
type Renderer struct {
	School    string
	Now       func() time.Time
	templates map[string]*template.Template
}

func NewRenderer(school string) (*Renderer, error) {
	if school == "" {
		school = "Southville 8B Senior High School"
	}
	r := &Renderer{School: school, Now: time.Now, templates: make(map[string]*template.Template, len(messages))}
	for kind, m := range messages {
		t, err := template.New(kind).Parse(layout)
		if err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
		if _, err := t.New("body").Parse(m.body); err != nil {
			return nil, fmt.Errorf("parse %s: %w", kind, err)
		}
		r.templates[kind] = t
	}
	return r, nil
}

func (r *Renderer) Render(p Payload) (subject, body string, err error) {
	m, ok := messages[p.Kind()]
	t := r.templates[p.Kind()]
	if !ok || t == nil {
		return "", "", fmt.Errorf("no template for %q", p.Kind())
	}
	var buf bytes.Buffer
	err = t.ExecuteTemplate(&buf, "layout", map[string]any{
		"Heading": m.heading,
		"Color":   template.CSS(m.color),
		"School":  r.School,
		"Year":    r.Now().Year(),
		"Data":    p,
	})
	if err != nil {
		return "", "", fmt.Errorf("render %s: %w", p.Kind(), err)
	}
	return m.subject, buf.String(), nil
}
