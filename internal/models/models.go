package models

import "time"

// User is an account in the portal. Admins run the agency side, clients
// own projects and pay for them.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Project groups the tasks, payments and chat of a single engagement.
// A project belongs to exactly one client and owns its tasks and payments.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    Category      `json:"category"`
	Deadline    time.Time     `json:"deadline"`
	Status      ProjectStatus `json:"status"`
	ClientID    string        `json:"clientId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Task is a single card on the project's kanban board. Tasks never move
// between projects and are never deleted.
type Task struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"projectId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Stage       Stage         `json:"stage"`
	CreatedBy   string        `json:"createdBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	Resources   []string      `json:"resources,omitempty"`
	Comments    []TaskComment `json:"comments"`
}

// TaskComment is an append-only note on a task. Approvals and change
// requests share the comment stream, distinguished by Type.
type TaskComment struct {
	ID        string      `json:"id"`
	TaskID    string      `json:"taskId"`
	Content   string      `json:"content"`
	Author    string      `json:"author"`
	Type      CommentType `json:"type"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Payment is one quoted amount due on a project. The amount is fixed when
// the admin uploads the quotation; receipts accumulate against it and the
// status reflects how much of the amount they cover.
type Payment struct {
	ID           string        `json:"id"`
	ProjectID    string        `json:"projectId"`
	Amount       float64       `json:"amount"`
	Description  string        `json:"description"`
	Status       PaymentStatus `json:"status"`
	QuotationURL string        `json:"quotationUrl,omitempty"`
	DueDate      time.Time     `json:"dueDate"`
	CreatedAt    time.Time     `json:"createdAt"`
	Receipts     []Receipt     `json:"receipts"`
}

// Receipt records a partial or full payment against a Payment. Receipts
// are append-only and never edited.
type Receipt struct {
	ID         string    `json:"id"`
	PaymentID  string    `json:"paymentId"`
	ReceiptURL string    `json:"receiptUrl"`
	AmountPaid float64   `json:"amountPaid"`
	PaidAt     time.Time `json:"paidAt"`
}

// Message is a chat entry on a project.
type Message struct {
	ID            string      `json:"id"`
	ProjectID     string      `json:"projectId"`
	SenderID      string      `json:"senderId"`
	SenderName    string      `json:"senderName"`
	SenderRole    Role        `json:"senderRole"`
	Content       string      `json:"content"`
	Type          MessageType `json:"type"`
	AttachmentURL string      `json:"attachmentUrl,omitempty"`
	ReplyTo       string      `json:"replyTo,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// Session is a bearer token issued at login.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
