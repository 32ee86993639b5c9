package poller

import (
	"context"
	"encoding/json"
	"github.com/gorilla/mux"
	logger "log"
	"net/http"
	"sync"
	"time"
)

//defaultHttpHandler simple default http handler for default route
type defaultHttpHandler struct {
}

//ServeHTTP implements defaultHttpHandler http.Handler interface
func (h *defaultHttpHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Application-Status", "OK")
}

//statusHandler responds with the outcome of the most recent poll
type statusHandler struct {
	log    *logger.Logger
	status *pollStatus
}

//ServeHTTP implements statusHandler's http.Handler interface
func (h *statusHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	jsonData, err := json.Marshal(h.status.get())
	if err != nil {
		h.log.Printf("Error marshaling poll status to json: error:%v\n", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(jsonData); err != nil {
		h.log.Printf("Error writing json response: %s", err)
	}
}

//createServer creates configured http.Server for status and metrics requests
func createServer(log *logger.Logger, poller *Poller, address string) *http.Server {
	r := mux.NewRouter()
	r.Handle("/", &defaultHttpHandler{})
	r.Handle("/status", &statusHandler{log: log, status: poller.status}).Methods(http.MethodGet)
	r.Handle("/metrics", poller.metrics.Handler()).Methods(http.MethodGet)
	srv := &http.Server{
		Addr: address,
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      r,
	}
	return srv
}

//RunWebService serves poller status and metrics on address until ctx is done
func RunWebService(ctx context.Context,
	log *logger.Logger,
	wg *sync.WaitGroup,
	poller *Poller,
	address string) {
	defer wg.Done()
	srv := createServer(log, poller, address)
	log.Printf("Starting server on %s", address)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("server ListenAndServe ended. %s", err)
		}
	}()

	<-ctx.Done()
	log.Printf("ending webservice on shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(5)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down webservice, error:%s", err)
	}
}
