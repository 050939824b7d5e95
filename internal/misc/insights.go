package misc

type Insight struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	ReadTime string `json:"readTime"`
}

type Insights struct {
	Featured  Insight   `json:"featured"`
	Articles  []Insight `json:"articles"`
	WeeklyTip string    `json:"weeklyTip"`
}

var healthInsights = Insights{
	Featured: Insight{
		Title:    "The Science of Recovery",
		Category: "Recovery",
		Summary:  "Understanding how proper recovery techniques can enhance your fitness journey and prevent injuries.",
	},
	Articles: []Insight{
		{
			ID:       1,
			Title:    "The Importance of Sleep for Fitness",
			Category: "Sleep",
			Summary:  "Learn how quality sleep affects your workout performance and recovery.",
			ReadTime: "5 min read",
		},
		{
			ID:       2,
			Title:    "Nutrition Myths Debunked",
			Category: "Nutrition",
			Summary:  "Common nutrition misconceptions and the science behind them.",
			ReadTime: "7 min read",
		},
		{
			ID:       3,
			Title:    "Mental Health and Exercise",
			Category: "Mental Health",
			Summary:  "How regular exercise can improve your mental wellbeing.",
			ReadTime: "6 min read",
		},
		{
			ID:       4,
			Title:    "Heart Health Basics",
			Category: "Cardiovascular",
			Summary:  "Essential tips for maintaining a healthy heart through exercise.",
			ReadTime: "8 min read",
		},
	},
	WeeklyTip: "Stay hydrated throughout your workout. Aim to drink water before, during, and after exercise " +
		"to maintain optimal performance and recovery.",
}
