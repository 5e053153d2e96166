package notify

// Embed styling
const (
	ColorSlain  = 0x8A0303
	ColorMinted = 0x5865F2

	FooterText     = "Monsters"
	TitleSlain     = "A monster has fallen"
	TitleMinted    = "A monster awakens"
	FieldMonster   = "Monster"
	FieldSlayer    = "Slayer"
	FieldWeapon    = "Weapon"
	FieldOwner     = "Owner"
	FieldMintRoute = "Claimed via"
)

// Log messages
const (
	LogMsgParseError        = "Failed to decode event payload for notification"
	LogMsgNotificationError = "Failed to send Discord notification"
	LogMsgNotificationSent  = "Discord notification sent"
	LogMsgSessionOpened     = "Discord notifier session ready"
)
