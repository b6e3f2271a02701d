package pkg

type Response struct {
	Sizes map[string]ResultSize `json:"sizes"`
}
