package backend

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
)

// PetRecord is the pet as the backend API serializes it.
type PetRecord struct {
	ID           int64      `json:"id,omitempty"`
	Nome         string     `json:"nome"`
	Especie      string     `json:"especie,omitempty"`
	Porte        string     `json:"porte,omitempty"`
	Descricao    string     `json:"descricao,omitempty"`
	Imagens      []string   `json:"imagens,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Idade        FlexString `json:"idade,omitempty"`
	Peso         FlexString `json:"peso,omitempty"`
	Localizacao  string     `json:"localizacao,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	Endereco     string     `json:"endereco,omitempty"`
	Vacinado     bool       `json:"vacinado"`
	Castrado     bool       `json:"castrado"`
	Temperamento []string   `json:"temperamento,omitempty"`
	EstadoSaude  string     `json:"estadoSaude,omitempty"`
	Status       string     `json:"status,omitempty"`
	OngID        *int64     `json:"ongId,omitempty"`
	TutorID      *int64     `json:"tutorId,omitempty"`
}

// CompatibilityRecord is one entry of GET /compatibilidade/adotante/{id}/pets.
type CompatibilityRecord struct {
	PetID           int64 `json:"idPet"`
	Compatibilidade int   `json:"compatibilidade"`
}

// AdoptRequest is the body of POST /pets/{id}/adopt.
type AdoptRequest struct {
	AdotanteID int64 `json:"adotanteId"`
}

// FlexString accepts either a JSON string or a JSON number.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
