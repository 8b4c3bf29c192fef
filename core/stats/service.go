package stats

type (
	// Stats aggregates catalog and account counts in a single full scan.
	Stats struct {
		TotalMaterials int            `json:"total_materials"`
		TotalDownloads int            `json:"total_downloads"`
		TotalUsers     int            `json:"total_users"`
		GradeBreakdown map[string]int `json:"grade_breakdown"`
	}

	Repository interface {
		GetStats() (Stats, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get() (Stats, error) {
	return svc.repo.GetStats()
}
