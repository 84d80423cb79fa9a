package dto

type CreateRunRequest struct {
	VideoRef string `json:"video_ref" binding:"required"`
}

type CreateRunResponse struct {
	Transcript       string `json:"transcript"`
	FeedbackText     string `json:"feedback_text"`
	FeedbackAudioRef string `json:"feedback_audio_ref"`
}

type RunErrorResponse struct {
	Stage string `json:"stage,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error"`
}
