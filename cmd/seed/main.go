// Seeds the vocabulary card pool and the starter quizzes. Safe to run
// against an empty database; skips seeding when cards already exist.
package main

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/rua702356-pixel/Web-Japanese/internal/config"
	"github.com/rua702356-pixel/Web-Japanese/internal/database"
	"github.com/rua702356-pixel/Web-Japanese/internal/models"
	"github.com/rua702356-pixel/Web-Japanese/internal/repository"
)

type seedCard struct {
	japanese   string
	hiragana   string
	vietnamese string
	romaji     string
	example    string
	category   string
	difficulty string
}

var seedCards = []seedCard{
	{"こんにちは", "こんにちは", "xin chào", "konnichiwa", "こんにちは、田中さん。", "greeting", "easy"},
	{"ありがとう", "ありがとう", "cảm ơn", "arigatou", "ありがとうございます。", "greeting", "easy"},
	{"おはよう", "おはよう", "chào buổi sáng", "ohayou", "おはようございます。", "greeting", "easy"},
	{"さようなら", "さようなら", "tạm biệt", "sayounara", "さようなら、また明日。", "greeting", "easy"},
	{"学校", "がっこう", "trường học", "gakkou", "学校に行きます。", "education", "medium"},
	{"先生", "せんせい", "giáo viên", "sensei", "先生は親切です。", "education", "easy"},
	{"学生", "がくせい", "học sinh", "gakusei", "私は学生です。", "education", "easy"},
	{"家", "いえ", "nhà", "ie", "家に帰ります。", "basic", "easy"},
	{"水", "みず", "nước", "mizu", "水を飲みます。", "basic", "easy"},
	{"家族", "かぞく", "gia đình", "kazoku", "家族は四人です。", "family", "medium"},
	{"母", "はは", "mẹ", "haha", "母は料理が上手です。", "family", "easy"},
	{"父", "ちち", "bố", "chichi", "父は会社員です。", "family", "easy"},
	{"ご飯", "ごはん", "cơm", "gohan", "ご飯を食べます。", "food", "easy"},
	{"魚", "さかな", "cá", "sakana", "魚が好きです。", "food", "easy"},
	{"赤", "あか", "màu đỏ", "aka", "赤いりんごです。", "colors", "easy"},
	{"青", "あお", "màu xanh", "ao", "青い空です。", "colors", "easy"},
	{"一", "いち", "số một", "ichi", "一つください。", "numbers", "easy"},
	{"二", "に", "số hai", "ni", "二人で行きます。", "numbers", "easy"},
}

func seedQuizzes() []models.Quiz {
	return []models.Quiz{
		{
			ID:                  uuid.New(),
			Title:               "Hiragana Cơ Bản",
			Description:         "Kiểm tra kiến thức về bảng chữ cái Hiragana",
			Level:               "N5",
			TimeLimitSeconds:    600,
			PassingScorePercent: 70,
			Questions: []models.Question{
				{
					ID:           "h1",
					Type:         models.QuestionTypeMultipleChoice,
					Prompt:       "Chữ あ được phát âm như thế nào?",
					Options:      []string{"/a/", "/i/", "/u/", "/e/"},
					CorrectIndex: 0,
					Explanation:  "Chữ あ phát âm là /a/",
					Points:       20,
				},
				{
					ID:           "h2",
					Type:         models.QuestionTypeMultipleChoice,
					Prompt:       "Từ いぬ có nghĩa là gì?",
					Options:      []string{"mèo", "chó", "chim", "cá"},
					CorrectIndex: 1,
					Explanation:  "いぬ có nghĩa là chó",
					Points:       20,
				},
				{
					ID:           "h3",
					Type:         models.QuestionTypeFillBlank,
					Prompt:       "「ね」+「こ」= ___ (con mèo)",
					Options:      []string{"ねこ", "いぬ", "とり", "さかな"},
					CorrectIndex: 0,
					Explanation:  "ねこ có nghĩa là con mèo",
					Points:       20,
				},
			},
		},
		{
			ID:                  uuid.New(),
			Title:               "Từ Vựng Chào Hỏi",
			Description:         "Kiểm tra từ vựng chào hỏi cơ bản",
			Level:               "N5",
			TimeLimitSeconds:    300,
			PassingScorePercent: 70,
			Questions: []models.Question{
				{
					ID:           "g1",
					Type:         models.QuestionTypeMultipleChoice,
					Prompt:       "「こんにちは」có nghĩa là gì?",
					Options:      []string{"Tạm biệt", "Xin chào", "Cảm ơn", "Xin lỗi"},
					CorrectIndex: 1,
					Explanation:  "こんにちは là lời chào ban ngày",
					Points:       50,
				},
				{
					ID:           "g2",
					Type:         models.QuestionTypeMultipleChoice,
					Prompt:       "「ありがとう」có nghĩa là gì?",
					Options:      []string{"Xin chào", "Tạm biệt", "Cảm ơn", "Không có gì"},
					CorrectIndex: 2,
					Explanation:  "ありがとう là lời cảm ơn",
					Points:       50,
				},
			},
		},
	}
}

func main() {
	log.Println("🌱 Seeding Web-Japanese database...")

	cfg := config.Load()

	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}

	ctx := context.Background()

	var existing int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM study_cards").Scan(&existing); err != nil {
		log.Fatalf("✗ Failed to check card pool: %v", err)
	}
	if existing > 0 {
		log.Printf("Card pool already has %d cards, nothing to do", existing)
		return
	}

	for _, c := range seedCards {
		_, err := pool.Exec(ctx,
			`INSERT INTO study_cards (front_primary, front_secondary, back_primary, back_secondary, back_note, category, difficulty)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.japanese, c.hiragana, c.vietnamese, c.romaji, c.example, c.category, c.difficulty,
		)
		if err != nil {
			log.Fatalf("✗ Failed to seed card %q: %v", c.japanese, err)
		}
	}
	log.Printf("✓ Seeded %d study cards", len(seedCards))

	quizRepo := repository.NewQuizRepo(pool)
	quizzes := seedQuizzes()
	for i := range quizzes {
		if err := quizRepo.Create(ctx, &quizzes[i]); err != nil {
			log.Fatalf("✗ Failed to seed quiz %q: %v", quizzes[i].Title, err)
		}
	}
	log.Printf("✓ Seeded %d quizzes", len(quizzes))

	log.Println("🌱 Seeding complete")
}
