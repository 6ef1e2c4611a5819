/*
Package metrics provides Prometheus metrics for remediation runs.

Metrics follow the step/run structure of a run: a duration histogram and
an outcome counter per step, plus gauges for the overall run result and
duration. Everything registers against the default registry at package
init.

Because nodemedic exits after one run there is no scrape endpoint;
Push publishes the gathered metrics to a Pushgateway, grouped by
control plane and service, when a gateway URL is configured. A failed
push is diagnostic noise, never a remediation failure.
*/
package metrics
