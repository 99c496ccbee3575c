package extract

// chatgptAdapter extracts from chatgpt.com (and the legacy chat.openai.com
// host). The model indicator lives in the model-switcher button; messages
// carry data-message-author-role attributes.
var chatgptAdapter = &platformAdapter{
	name:  "chatgpt",
	hosts: []string{"chatgpt.com", "chat.openai.com"},
	modelSelectors: []string{
		`[data-testid="model-switcher-dropdown-button"]`,
		`button[aria-label*="Model selector"]`,
		`[data-testid="model-switcher"] span`,
	},
	titleSelectors: []string{
		`[data-testid="conversation-title"]`,
		`nav a[aria-current="page"]`,
	},
	exchangePairs: []exchangePair{
		{
			user:      `[data-message-author-role="user"]`,
			assistant: `[data-message-author-role="assistant"]`,
		},
		{
			user:      `.user-message-bubble-color`,
			assistant: `.agent-turn .markdown`,
		},
	},
	shareMarker: "/share/",
}
