package smtp

import (
	"EllaBooking/internal/entity"
	"fmt"
	smtpPkg "net/smtp"
	"os"
	"strings"
)

type ItfSmtp interface {
	SendBookingConfirmation(booking entity.Booking) error
}

type sendFunc func(addr string, a smtpPkg.Auth, from string, to []string, msg []byte) error

type smtp struct {
	auth smtpPkg.Auth
	mail string
	addr string
	send sendFunc
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	return &smtp{
		auth: smtpPkg.PlainAuth("", mail, password, host),
		mail: mail,
		addr: host + ":" + port,
		send: smtpPkg.SendMail,
	}
}

func (s *smtp) SendBookingConfirmation(booking entity.Booking) error {
	if booking.Email == "" {
		return nil
	}

	to := []string{booking.Email}
	message := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your %s is booked\r\n\r\n%s",
		s.mail, booking.Email, booking.ServiceType, confirmationBody(booking)))

	return s.send(s.addr, s.auth, s.mail, to, message)
}

func confirmationBody(b entity.Booking) string {
	name := "there"
	if fields := strings.Fields(b.Name); len(fields) > 0 {
		name = fields[0]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\r\n\r\n", name)
	fmt.Fprintf(&sb, "Your %s is confirmed for %s at %s (%s).\r\n", b.ServiceType, b.Date, b.Time, b.Frequency)
	if len(b.AddOns) > 0 {
		names := make([]string, 0, len(b.AddOns))
		for _, a := range b.AddOns {
			names = append(names, a.Name)
		}
		fmt.Fprintf(&sb, "Add-ons: %s\r\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&sb, "Total: $%.2f, paid by %s.\r\n", b.Totals.Total, b.PaymentMethod)
	fmt.Fprintf(&sb, "Booking reference: %s\r\n\r\nSee you soon,\r\nElla", b.ID)
	return sb.String()
}
