package domain

// Responses of the messaging API
type (
	// MessageAPIResponse - result of a send endpoint
	MessageAPIResponse struct {
		// RequestID is taken from the X-Line-Request-Id response header
		RequestID    string        `json:"-"`
		SentMessages []SentMessage `json:"sentMessages,omitempty"`
	}

	// SentMessage - a message accepted by a send endpoint
	SentMessage struct {
		ID         string `json:"id"`
		QuoteToken string `json:"quoteToken,omitempty"`
	}

	// NumberOfMessagesResponse - number of messages sent on a given date.
	// Status is "ready", "unready" or "out_of_service"; Success is set only when ready.
	NumberOfMessagesResponse struct {
		Status  string `json:"status"`
		Success *int64 `json:"success,omitempty"`
	}

	// MessageDeliveriesResponse - number of messages delivered on a given date, by channel feature
	MessageDeliveriesResponse struct {
		Status          string `json:"status"`
		Broadcast       *int64 `json:"broadcast,omitempty"`
		Targeting       *int64 `json:"targeting,omitempty"`
		AutoResponse    *int64 `json:"autoResponse,omitempty"`
		WelcomeResponse *int64 `json:"welcomeResponse,omitempty"`
		Chat            *int64 `json:"chat,omitempty"`
		APIBroadcast    *int64 `json:"apiBroadcast,omitempty"`
		APIPush         *int64 `json:"apiPush,omitempty"`
		APIMulticast    *int64 `json:"apiMulticast,omitempty"`
		APINarrowcast   *int64 `json:"apiNarrowcast,omitempty"`
		APIReply        *int64 `json:"apiReply,omitempty"`
	}

	// FollowersResponse - number of followers on a given date
	FollowersResponse struct {
		Status          string `json:"status"`
		Followers       *int64 `json:"followers,omitempty"`
		TargetedReaches *int64 `json:"targetedReaches,omitempty"`
		Blocks          *int64 `json:"blocks,omitempty"`
	}

	// BotInfoResponse - basic information about the bot
	BotInfoResponse struct {
		UserID         string `json:"userId"`
		BasicID        string `json:"basicId"`
		PremiumID      string `json:"premiumId,omitempty"`
		DisplayName    string `json:"displayName"`
		PictureURL     string `json:"pictureUrl,omitempty"`
		ChatMode       string `json:"chatMode"`
		MarkAsReadMode string `json:"markAsReadMode"`
	}
)
