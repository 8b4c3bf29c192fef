package client

import "time"

// SDK types. The wire DTOs below carry the snake_case field names the API
// speaks; conversions are pure and preserve every field.

type (
	User struct {
		ID        string
		Email     string
		Name      string
		Role      string
		Avatar    string
		CreatedAt time.Time
	}

	Material struct {
		ID            string
		Title         string
		Description   string
		Type          string
		GradeLevel    string
		Thumbnail     string
		DownloadURL   string
		IsInteractive bool
		AuthorID      string
		AuthorName    string
		CreatedAt     time.Time
		Downloads     int
		Likes         int
		Tags          []string
	}

	MaterialList struct {
		Items []Material
		Total int
	}

	Stats struct {
		TotalMaterials int
		TotalDownloads int
		TotalUsers     int
		GradeBreakdown map[string]int
	}
)

type (
	userDTO struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		Role      string    `json:"role"`
		Avatar    string    `json:"avatar,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	materialDTO struct {
		ID            string    `json:"id"`
		Title         string    `json:"title"`
		Description   string    `json:"description"`
		Type          string    `json:"type"`
		GradeLevel    string    `json:"grade_level"`
		Thumbnail     string    `json:"thumbnail"`
		DownloadURL   string    `json:"download_url,omitempty"`
		IsInteractive bool      `json:"is_interactive"`
		AuthorID      string    `json:"author_id"`
		AuthorName    string    `json:"author_name"`
		CreatedAt     time.Time `json:"created_at"`
		Downloads     int       `json:"downloads"`
		Likes         int       `json:"likes"`
		Tags          []string  `json:"tags"`
	}

	statsDTO struct {
		TotalMaterials int            `json:"total_materials"`
		TotalDownloads int            `json:"total_downloads"`
		TotalUsers     int            `json:"total_users"`
		GradeBreakdown map[string]int `json:"grade_breakdown"`
	}

	authResponseDTO struct {
		User        userDTO `json:"user"`
		AccessToken string  `json:"access_token"`
		TokenType   string  `json:"token_type"`
	}

	materialListDTO struct {
		Items []materialDTO `json:"items"`
		Total int           `json:"total"`
	}

	downloadDTO struct {
		URL string `json:"url"`
	}

	likeDTO struct {
		Likes int `json:"likes"`
	}

	loginDTO struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	registerDTO struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
)

func (d userDTO) unpack() User {
	return User(d)
}

func packUser(u User) userDTO {
	return userDTO(u)
}

func (d materialDTO) unpack() Material {
	return Material(d)
}

func packMaterial(m Material) materialDTO {
	return materialDTO(m)
}

func (d materialListDTO) unpack() MaterialList {
	items := make([]Material, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, it.unpack())
	}
	return MaterialList{Items: items, Total: d.Total}
}

func (d statsDTO) unpack() Stats {
	return Stats(d)
}
