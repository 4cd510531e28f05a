package models

const (
	// SystemPrompt is the fixed persona instruction sent with every
	// generation request.
	SystemPrompt = "You are Prodesk AI Assistant, the customer support assistant for Prodesk, a software development company. Provide accurate, friendly, and professional responses based on the provided context."

	// ContextPromptTemplate frames the retrieved grounding context and the
	// user query for the model. Filled as (context, query).
	ContextPromptTemplate = "Context:\n%s\nQuery: %s"
)
