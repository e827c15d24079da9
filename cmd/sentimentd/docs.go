package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           sentimentd API
// @version         1.0
// @description     HTTP API for single-utterance sentiment prediction with hot-reloadable model weights.
//
// @contact.name   sentimentd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
