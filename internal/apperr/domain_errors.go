package apperr

var (
	// Sentinel errors shared by store commands and handlers.
	ErrUserNotFound         = NotFound("user not found")
	ErrChatNotFound         = NotFound("chat not found")
	ErrGroupNotFound        = NotFound("group not found")
	ErrMessageNotFound      = NotFound("message not found")
	ErrRequestNotFound      = NotFound("connection request not found")
	ErrNotificationNotFound = NotFound("notification not found")

	ErrSameUser          = InvalidArg("cannot target your own account")
	ErrBadMessageTarget  = InvalidArg("exactly one of chat_id and group_id must be set")
	ErrInvalidChatAction = InvalidArg("unknown chat action")

	ErrNotChatMember    = Forbidden("not a member of this chat")
	ErrNotGroupMember   = Forbidden("not a member of this group")
	ErrNotMessageSender = Forbidden("only the sender may modify this message")
	ErrNotRequestee     = Forbidden("only the requestee may answer this request")

	ErrUserBlocked = Blocked("action not allowed between blocked users")
	ErrChatBlocked = Blocked("chat is blocked")

	ErrMessageTombstoned = FailedPrecondition("message has been deleted for everyone")

	ErrUsernameTaken      = AlreadyExists("username is already taken")
	ErrRequestExists      = AlreadyExists("connection request already exists")
	ErrInvalidCredentials = Unauthorized("invalid credentials")
	ErrInvalidToken       = Unauthorized("invalid or expired token")
	ErrOTPInvalid         = Unauthorized("invalid or expired verification code")
)
