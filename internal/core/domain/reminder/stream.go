package reminder

// StreamToken authorizes a subscription to the delivered reminders of one
// recipient.
type StreamToken string

type StreamTokenIssuer interface {
	GenerateStreamToken(recipientID RecipientID) StreamToken
	ValidateStreamToken(recipientID RecipientID, token StreamToken) bool
}
