package main

import (
	"CafeBackend/adminutil"
	"CafeBackend/auth"
	"CafeBackend/config"
	"CafeBackend/mailer"
	"CafeBackend/routers"
	"CafeBackend/store"
)

func main() {
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		panic("無法讀取設定檔")
	}

	db, err := config.SetupMySQLConnection()
	if err != nil {
		panic("無法連接到資料庫")
	}
	defer func() {
		dbInstance, _ := db.DB()
		_ = dbInstance.Close()
	}()

	rdb, err := config.SetupRedisConnection()
	if err != nil {
		panic("無法連接到Redis")
	}
	defer rdb.Close()

	documents := store.NewDatabase(db, rdb)
	provider := auth.NewProvider(rdb)
	mail := mailer.NewClient(cfg.Email.Endpoint, cfg.Email.APIKey, cfg.Email.From)
	admins := adminutil.AllowList(cfg.AdminEmails)

	router := routers.SetupRouters(documents, rdb, provider, mail, admins)
	router.Run(":3000")
}
