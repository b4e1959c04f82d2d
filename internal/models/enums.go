package models

// Stage is the kanban column a task sits in. The four stages are ordered,
// but a task may move from any stage to any other.
type Stage string

const (
	StageToDo       Stage = "to-do"
	StageInProgress Stage = "in-progress"
	StageReview     Stage = "review"
	StageDone       Stage = "done"
)

// Stages lists the board columns in order. Index position doubles as the
// stage's rank for progress rollups.
var Stages = []Stage{StageToDo, StageInProgress, StageReview, StageDone}

// Index returns the stage's position on the board, or -1 for an unknown stage.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the four board columns.
func (s Stage) Valid() bool { return s.Index() >= 0 }

// CommentType distinguishes plain comments from approvals and change requests.
type CommentType string

const (
	CommentPlain         CommentType = "comment"
	CommentApproval      CommentType = "approval"
	CommentChangeRequest CommentType = "change_request"
)

// ValidCommentTypes enumerates the comment kinds accepted by the board.
var ValidCommentTypes = map[CommentType]struct{}{
	CommentPlain:         {},
	CommentApproval:      {},
	CommentChangeRequest: {},
}

// Valid reports whether t is a known comment type.
func (t CommentType) Valid() bool {
	_, ok := ValidCommentTypes[t]
	return ok
}

// PaymentStatus reflects how much of a payment's amount its receipts cover.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// ValidPaymentStatuses enumerates the statuses a payment can carry.
var ValidPaymentStatuses = map[PaymentStatus]struct{}{
	PaymentPending: {},
	PaymentPartial: {},
	PaymentPaid:    {},
	PaymentOverdue: {},
}

// Role separates agency admins from clients.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleClient }

// ProjectStatus marks a project as ongoing or finished.
type ProjectStatus string

const (
	ProjectOngoing  ProjectStatus = "ongoing"
	ProjectFinished ProjectStatus = "finished"
)

// Category is the kind of work a project covers.
type Category string

const (
	CategoryWeb     Category = "web"
	CategoryGraphic Category = "graphic"
)

// Valid reports whether c is a known project category.
func (c Category) Valid() bool { return c == CategoryWeb || c == CategoryGraphic }

// MessageType is the payload kind of a chat message.
type MessageType string

const (
	MessageText     MessageType = "text"
	MessageImage    MessageType = "image"
	MessageDocument MessageType = "document"
)

// ValidMessageTypes enumerates the chat payload kinds.
var ValidMessageTypes = map[MessageType]struct{}{
	MessageText:     {},
	MessageImage:    {},
	MessageDocument: {},
}

// Valid reports whether t is a known message type.
func (t MessageType) Valid() bool {
	_, ok := ValidMessageTypes[t]
	return ok
}
