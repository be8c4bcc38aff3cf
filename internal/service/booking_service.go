package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/resendlabs/resend-go"
	"github.com/rs/zerolog/log"
	"github.com/tidewater/internal/site"
	"github.com/tidewater/internal/store"
)

// LeadStatusNew 是新提交线索的状态。
const LeadStatusNew = "new"

// LeadInput 是预订表单提交的字段。
type LeadInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ServiceType     string `json:"serviceType"`
	PickupLocation  string `json:"pickupLocation"`
	DropoffLocation string `json:"dropoffLocation"`
	Dates           string `json:"dates"`
	Passengers      int    `json:"passengers"`
	VehicleType     string `json:"vehicleType"`
	ContactInfo     string `json:"contactInfo"`
	SpecialRequests string `json:"specialRequests"`
}

func (in LeadInput) lead() site.Lead {
	return site.Lead{
		Name:            strings.TrimSpace(in.Name),
		Email:           strings.TrimSpace(in.Email),
		Phone:           strings.TrimSpace(in.Phone),
		ServiceType:     strings.TrimSpace(in.ServiceType),
		PickupLocation:  strings.TrimSpace(in.PickupLocation),
		DropoffLocation: strings.TrimSpace(in.DropoffLocation),
		Dates:           strings.TrimSpace(in.Dates),
		Passengers:      in.Passengers,
		VehicleType:     strings.TrimSpace(in.VehicleType),
		ContactInfo:     strings.TrimSpace(in.ContactInfo),
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		Status:          LeadStatusNew,
	}
}

// LeadNotifier 在新线索写入后发出通知。
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead site.Lead) error
}

// LogNotifier 只记录日志，未配置邮件服务时使用。
type LogNotifier struct{}

// NotifyLead 实现 LeadNotifier。
func (LogNotifier) NotifyLead(_ context.Context, lead site.Lead) error {
	log.Info().Str("lead", lead.ID).Str("service", lead.ServiceType).Msg("new booking lead")
	return nil
}

// ResendNotifier 通过 Resend 发送线索邮件。
type ResendNotifier struct {
	client *resend.Client
	from   string
	to     []string
}

// NewResendNotifier 构造 ResendNotifier。
func NewResendNotifier(apiKey, from string, to ...string) *ResendNotifier {
	return &ResendNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

var leadEmailTemplate = template.Must(template.New("lead").Parse(`<h2>New booking request</h2>
<table>
<tr><td>Name</td><td>{{.Name}}</td></tr>
<tr><td>Email</td><td>{{.Email}}</td></tr>
{{if .Phone}}<tr><td>Phone</td><td>{{.Phone}}</td></tr>{{end}}
<tr><td>Service</td><td>{{.ServiceType}}</td></tr>
{{if .Dates}}<tr><td>Dates</td><td>{{.Dates}}</td></tr>{{end}}
{{if .Passengers}}<tr><td>Passengers</td><td>{{.Passengers}}</td></tr>{{end}}
{{if .PickupLocation}}<tr><td>Pickup</td><td>{{.PickupLocation}}</td></tr>{{end}}
{{if .DropoffLocation}}<tr><td>Drop-off</td><td>{{.DropoffLocation}}</td></tr>{{end}}
{{if .VehicleType}}<tr><td>Vehicle</td><td>{{.VehicleType}}</td></tr>{{end}}
{{if .ContactInfo}}<tr><td>Contact</td><td>{{.ContactInfo}}</td></tr>{{end}}
</table>
{{if .SpecialRequests}}<p>{{.SpecialRequests}}</p>{{end}}`))

// NotifyLead 实现 LeadNotifier。
func (n *ResendNotifier) NotifyLead(_ context.Context, lead site.Lead) error {
	var body bytes.Buffer
	if err := leadEmailTemplate.Execute(&body, lead); err != nil {
		return fmt.Errorf("render lead email: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: fmt.Sprintf("New %s request from %s", lead.ServiceType, lead.Name),
		Html:    body.String(),
	}
	if _, err := n.client.Emails.Send(params); err != nil {
		return fmt.Errorf("send lead email: %w", err)
	}
	return nil
}

// BookingService 保存预订线索并通知运营人员。
type BookingService struct {
	store    store.Store
	notifier LeadNotifier
}

// NewBookingService 构造 BookingService，notifier 为 nil 时只记录日志。
func NewBookingService(st store.Store, notifier LeadNotifier) *BookingService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &BookingService{store: st, notifier: notifier}
}

// Submit 校验并保存线索。通知失败只记录日志，不影响提交结果。
func (s *BookingService) Submit(ctx context.Context, input LeadInput) (site.Lead, error) {
	lead := input.lead()
	if err := lead.Validate(); err != nil {
		return site.Lead{}, err
	}

	doc, err := store.Encode(lead)
	if err != nil {
		return site.Lead{}, err
	}
	delete(doc, "id")
	delete(doc, "createdAt")
	delete(doc, "updatedAt")

	id, err := s.store.Create(ctx, site.LeadsCollection, doc)
	if err != nil {
		log.Error().Err(err).Msg("save booking lead failed")
		return site.Lead{}, fmt.Errorf("保存预订信息失败: %w", err)
	}
	lead.ID = id

	if record, err := s.store.Get(ctx, site.LeadsCollection, id); err == nil {
		lead.CreatedAt = record.CreatedAt
		lead.UpdatedAt = record.UpdatedAt
	}

	if err := s.notifier.NotifyLead(ctx, lead); err != nil {
		log.Warn().Err(err).Str("lead", id).Msg("notify booking lead failed")
	}
	return lead, nil
}

// List 返回全部线索，最新的在前。
func (s *BookingService) List(ctx context.Context) ([]site.Lead, error) {
	records, err := s.store.List(ctx, site.LeadsCollection)
	if err != nil {
		return nil, err
	}
	leads := make([]site.Lead, 0, len(records))
	for _, record := range records {
		var lead site.Lead
		if err := store.Decode(record.Data, &lead); err != nil {
			log.Warn().Err(err).Str("lead", record.ID).Msg("skip malformed lead")
			continue
		}
		lead.ID = record.ID
		lead.CreatedAt = record.CreatedAt
		lead.UpdatedAt = record.UpdatedAt
		leads = append(leads, lead)
	}
	return leads, nil
}
